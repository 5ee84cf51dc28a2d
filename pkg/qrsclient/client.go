// Package qrsclient provides the main entry point for creating repository
// service clients.
package qrsclient

import (
	"strings"

	"github.com/senseops-io/qrs-client/internal/client"
	"github.com/senseops-io/qrs-client/internal/constants"
	"github.com/senseops-io/qrs-client/internal/session"
	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// New creates a repository service client from config, selecting the
// authentication variant from the credential material: a certificate path
// selects mutual TLS against the certificate port, domain credentials select
// the NTLM exchange through the platform proxy. No network access happens
// here; the session authenticates lazily on first use.
func New(config *qrs.Config) (qrs.Client, error) {
	if config == nil {
		return nil, qrs.ErrConfigRequired
	}

	if config.Host == "" {
		return nil, qrs.ErrHostRequired
	}

	// Work on a copy so defaulting never mutates the caller's config.
	cfg := *config

	cfg.Host = strings.TrimSuffix(cfg.Host, "/")
	cfg.Host = strings.TrimPrefix(cfg.Host, "https://")
	cfg.Host = strings.TrimPrefix(cfg.Host, "http://")

	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}

	sess, err := newSession(&cfg)
	if err != nil {
		return nil, err
	}

	return client.New(&cfg, sess, nil), nil
}

// NewWithCertificate wraps New for the mutual-TLS variant.
func NewWithCertificate(host, certificate string) (qrs.Client, error) {
	return New(&qrs.Config{Host: host, Certificate: certificate})
}

// NewWithCredentials wraps New for the domain-credential variant.
func NewWithCredentials(host, domain, username, password string) (qrs.Client, error) {
	return New(&qrs.Config{Host: host, Domain: domain, Username: username, Password: password})
}

func newSession(cfg *qrs.Config) (qrs.Session, error) {
	switch {
	case cfg.Certificate != "":
		if cfg.Port == 0 {
			cfg.Port = constants.DefaultCertPort
		}

		return session.NewCertSession(cfg), nil
	case cfg.Username != "" && cfg.Password != "":
		if cfg.Port == 0 {
			cfg.Port = constants.DefaultProxyPort
		}

		return session.NewNTLMSession(cfg), nil
	default:
		return nil, qrs.ErrNoCredentials
	}
}
