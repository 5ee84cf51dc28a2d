package session

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/Azure/go-ntlmssp"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// NTLMSession reaches the repository service through the platform proxy,
// negotiating NTLM with Windows domain credentials. The proxy routes the
// challenge flow off the User-Agent, so the variant always presents itself
// as a Windows client.
type NTLMSession struct {
	base
}

// NewNTLMSession builds the domain-credential variant from config.
func NewNTLMSession(cfg *qrs.Config) *NTLMSession {
	s := &NTLMSession{}
	s.init(cfg)

	s.userAgent = "Windows"
	s.basicUser = cfg.Username
	s.basicPass = cfg.Password

	if cfg.Domain != "" {
		s.basicUser = cfg.Domain + `\` + cfg.Username
	}

	s.auth = s

	return s
}

// Authenticate builds the negotiating transport and confirms the channel
// against the about endpoint.
func (s *NTLMSession) Authenticate(ctx context.Context) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return &qrs.AuthError{Reason: "domain credentials are not configured"}
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: s.cfg.SkipTLSVerify, //nolint:gosec
	}

	s.httpClient = s.newHTTPClient(ntlmssp.Negotiator{
		RoundTripper: &http.Transport{TLSClientConfig: tlsConfig},
	})

	return s.handshake(ctx)
}
