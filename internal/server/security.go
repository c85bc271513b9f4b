package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/vidtube-server/internal/config"
	"github.com/dtroode/vidtube-server/internal/model"
)

// NewSecurityLayer picks the TLS listener when HTTPS is enabled and the plain
// listener otherwise.
func NewSecurityLayer(cfg config.HTTP) model.SecurityLayer {
	if cfg.EnableHTTPS {
		return NewTLSListener(cfg.CertFileName, cfg.PrivateKeyFileName)
	}
	return NewPlainListener()
}

// TLSListener represents a TLS-enabled network listener for the HTTP server.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a new TLSListener instance.
//
// Parameters:
//   - certFileName: Path to the PEM certificate file
//   - privateKeyFileName: Path to the PEM private key file
//
// Returns a pointer to the newly created TLSListener instance.
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the key pair and opens a TLS listener that negotiates HTTP/2
// or HTTP/1.1 over TLS 1.2 or newer.
//
// Parameters:
//   - network: The network to listen on, e.g. "tcp"
//   - addr: The address to listen on
//
// Returns a TLS listener or an error if the key pair cannot be loaded.
func (l *TLSListener) Listen(network, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h2", "http/1.1"},
	}

	ln, err := tls.Listen(network, addr, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// PlainListener opens unencrypted listeners. Used behind a TLS-terminating
// proxy or in development.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(network, addr string) (net.Listener, error) {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}
