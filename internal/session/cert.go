package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/senseops-io/qrs-client/internal/constants"
	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// CertSession talks to the repository service directly on the certificate
// port, presenting a client certificate and impersonating a directory user
// through the X-Qlik-User header.
type CertSession struct {
	base
}

// NewCertSession builds the mutual-TLS variant from config. No network or
// filesystem access happens here; both are deferred to Authenticate.
func NewCertSession(cfg *qrs.Config) *CertSession {
	s := &CertSession{}
	s.init(cfg)

	directory := cfg.UserDirectory
	if directory == "" {
		directory = constants.DefaultUserDirectory
	}

	userID := cfg.UserID
	if userID == "" {
		userID = constants.DefaultUserID
	}

	s.impersonate = fmt.Sprintf("UserDirectory=%s; UserId=%s", directory, userID)
	s.auth = s

	return s
}

// Authenticate loads the certificate pair, builds the TLS transport, and
// confirms the channel against the about endpoint. A failure to load the
// pair is an AuthError; an unreachable host surfaces as a TransportError
// from the handshake.
func (s *CertSession) Authenticate(ctx context.Context) error {
	certPath := s.cfg.Certificate
	if certPath == "" {
		return &qrs.AuthError{Reason: "certificate path is not configured"}
	}

	pair, err := tls.LoadX509KeyPair(certPath, keyPathFor(certPath))
	if err != nil {
		return &qrs.AuthError{Reason: "loading client certificate pair", Err: err}
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
		// The repository certificate port presents the platform's own CA,
		// which is rarely in the system trust store.
		InsecureSkipVerify: s.cfg.SkipTLSVerify, //nolint:gosec
	}

	s.httpClient = s.newHTTPClient(&http.Transport{TLSClientConfig: tlsConfig})

	return s.handshake(ctx)
}

// keyPathFor derives the private-key path from the certificate path:
// client.pem pairs with client_key.pem.
func keyPathFor(certPath string) string {
	ext := filepath.Ext(certPath)

	return strings.TrimSuffix(certPath, ext) + "_key" + ext
}
