package session

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senseops-io/qrs-client/internal/constants"
	"github.com/senseops-io/qrs-client/pkg/qrs"
)

func testConfig(t *testing.T, server *httptest.Server) *qrs.Config {
	t.Helper()

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)

	host, portStr, err := net.SplitHostPort(parsed.Host)
	require.NoError(t, err)

	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &qrs.Config{
		Host:         host,
		Port:         port,
		Scheme:       parsed.Scheme,
		Domain:       "QLIK",
		Username:     "svc-admin",
		Password:     "hunter2",
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
	}
}

func TestNTLMSessionHandshakeAndRequest(t *testing.T) {
	var aboutHits int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Windows", r.Header.Get("User-Agent"))
		assert.Len(t, r.Header.Get(xrfKeyHeader), constants.XrfKeyLength)
		assert.Equal(t, r.Header.Get(xrfKeyHeader), r.URL.Query().Get(xrfKeyParam))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, `QLIK\svc-admin`, user)
		assert.Equal(t, "hunter2", pass)

		if r.URL.Path == "/qrs/about" {
			aboutHits++
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"buildVersion":"12.1"}`))

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	s := NewNTLMSession(testConfig(t, server))

	resp, err := s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/app"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, aboutHits, "handshake runs once, lazily, before the first request")

	_, err = s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/app"})
	require.NoError(t, err)
	assert.Equal(t, 1, aboutHits, "an established session is reused")
}

func TestNTLMSessionTokenRotation(t *testing.T) {
	var lastSeen string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastSeen = r.Header.Get(xrfKeyHeader)
		w.Header().Set(xrfKeyHeader, "rotatedrotated00")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	s := NewNTLMSession(testConfig(t, server))

	_, err := s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/tag"})
	require.NoError(t, err)

	_, err = s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/tag"})
	require.NoError(t, err)
	assert.Equal(t, "rotatedrotated00", lastSeen, "subsequent requests carry the rotated token")
}

func TestNTLMSessionLeavesCallerQueryUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get(xrfKeyParam))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	s := NewNTLMSession(testConfig(t, server))

	retained := url.Values{}
	retained.Set("filter", "name eq 'Sales'")

	_, err := s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/app", Query: retained})
	require.NoError(t, err)

	assert.Empty(t, retained.Get(xrfKeyParam), "the antiforgery key never leaks into the caller's values")
	assert.Len(t, retained, 1)
}

func TestNTLMSessionReauthenticatesOnce(t *testing.T) {
	var aboutHits, appHits int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/qrs/about" {
			aboutHits++
			w.WriteHeader(http.StatusOK)

			return
		}

		appHits++
		if appHits == 1 {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	s := NewNTLMSession(testConfig(t, server))

	resp, err := s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/app"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, aboutHits, "the rejected request triggers one re-authentication")
	assert.Equal(t, 2, appHits)
}

func TestNTLMSessionAuthExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/qrs/about" {
			w.WriteHeader(http.StatusOK)

			return
		}

		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	s := NewNTLMSession(testConfig(t, server))

	_, err := s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/stream"})
	require.Error(t, err)
	assert.True(t, qrs.IsAuthExpired(err))

	var expired *qrs.AuthExpiredError
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, http.StatusForbidden, expired.StatusCode)
}

func TestNTLMSessionMissingCredentials(t *testing.T) {
	s := NewNTLMSession(&qrs.Config{Host: "qs.example.com"})

	_, err := s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/app"})
	require.Error(t, err)
	assert.True(t, qrs.IsAuth(err))
}

func TestNTLMSessionHandshakeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := NewNTLMSession(testConfig(t, server))

	_, err := s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/app"})
	require.Error(t, err)
	assert.True(t, qrs.IsAuth(err), "a rejected handshake is an authentication failure")
	assert.False(t, qrs.IsAuthExpired(err))
}

func TestCertSessionMissingCertificate(t *testing.T) {
	s := NewCertSession(&qrs.Config{
		Host:        "qs.example.com",
		Certificate: filepath.Join(t.TempDir(), "missing.pem"),
	})

	_, err := s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/app"})
	require.Error(t, err)
	assert.True(t, qrs.IsAuth(err), "an unloadable certificate pair is an authentication failure")
	assert.False(t, qrs.IsTransport(err))
}

func TestCertSessionUnreachableHost(t *testing.T) {
	certPath := writeCertPair(t)

	// A listener that is closed immediately yields a port that refuses
	// connections.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	s := NewCertSession(&qrs.Config{
		Host:         "127.0.0.1",
		Port:         port,
		Certificate:  certPath,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
	})

	_, err = s.Do(context.Background(), &qrs.Request{Method: http.MethodGet, Path: "/qrs/app"})
	require.Error(t, err)
	assert.True(t, qrs.IsTransport(err), "an unreachable host is a transport failure, not an auth failure")
	assert.False(t, qrs.IsAuth(err))
}

func TestCertSessionImpersonationDefaults(t *testing.T) {
	s := NewCertSession(&qrs.Config{Host: "qs.example.com", Certificate: "/etc/qlik/client.pem"})
	assert.Equal(t, "UserDirectory=internal; UserId=sa_repository", s.impersonate)

	s = NewCertSession(&qrs.Config{
		Host:          "qs.example.com",
		Certificate:   "/etc/qlik/client.pem",
		UserDirectory: "QLIK",
		UserID:        "svc-admin",
	})
	assert.Equal(t, "UserDirectory=QLIK; UserId=svc-admin", s.impersonate)
}

func TestKeyPathFor(t *testing.T) {
	assert.Equal(t, "/etc/qlik/client_key.pem", keyPathFor("/etc/qlik/client.pem"))
	assert.Equal(t, "certs/admin_key.crt", keyPathFor("certs/admin.crt"))
}

func TestNewXrfKey(t *testing.T) {
	key := newXrfKey()
	require.Len(t, key, constants.XrfKeyLength)

	for _, c := range key {
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		assert.True(t, ok, "key contains only alphanumerics")
	}

	assert.NotEqual(t, key, newXrfKey(), "keys are random per session")
}

// writeCertPair writes a throwaway self-signed certificate and key laid out
// the way the platform exports them: client.pem next to client_key.pem.
func writeCertPair(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "qrs-client-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certPath := filepath.Join(dir, "client.pem")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(certPath, certPEM, 0o600))

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "client_key.pem"), keyPEM, 0o600))

	return certPath
}
