package tier2

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

type CertState int

const (
	CertUnreachable CertState = iota
	CertValid
	CertInvalid
)

// CertInfo describes the leaf certificate served for one host.
type CertInfo struct {
	Host     string
	State    CertState
	Expiry   time.Time
	DaysLeft int
	Err      string
}

//go:generate mockery --name CertProber
type CertProber interface {
	Probe(ctx context.Context, host string) CertInfo
}

type ProberConfig struct {
	DialTimeout time.Duration
	// RootCAs replaces the system pool when set.
	RootCAs *x509.CertPool
}

type tlsProber struct {
	cfg   ProberConfig
	now   func() time.Time
	group singleflight.Group
}

func NewProber(cfg ProberConfig) CertProber {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultFetchTimeout
	}
	return &tlsProber{cfg: cfg, now: time.Now}
}

// Probe connects to host (port 443 unless host carries one) and verifies the chain against the
// configured roots. A failed TCP dial is reported as unreachable, not invalid.
func (p *tlsProber) Probe(ctx context.Context, host string) CertInfo {
	v, _, _ := p.group.Do(host, func() (any, error) {
		return p.probe(ctx, host), nil
	})
	return v.(CertInfo)
}

func (p *tlsProber) probe(ctx context.Context, host string) CertInfo {
	name, addr := splitHost(host)
	info := CertInfo{Host: name}

	dialer := &net.Dialer{Timeout: p.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		info.Err = fmt.Sprintf("Connection error: %v", err)
		return info
	}

	tc := tls.Client(conn, &tls.Config{ServerName: name, RootCAs: p.cfg.RootCAs, MinVersion: tls.VersionTLS12})
	defer tc.Close()

	hsCtx, cancel := context.WithTimeout(ctx, p.cfg.DialTimeout)
	defer cancel()
	if err := tc.HandshakeContext(hsCtx); err != nil {
		var verr *tls.CertificateVerificationError
		switch {
		case errors.As(err, &verr):
			info.State = CertInvalid
			info.Err = fmt.Sprintf("Invalid cert: %v", verr.Err)
		case hsCtx.Err() != nil:
			info.Err = fmt.Sprintf("Connection error: %v", err)
		default:
			info.State = CertInvalid
			info.Err = fmt.Sprintf("SSL error: %v", err)
		}
		return info
	}

	certs := tc.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		info.State = CertInvalid
		info.Err = "Empty cert"
		return info
	}
	info.State = CertValid
	info.Expiry = certs[0].NotAfter.UTC()
	info.DaysLeft = int(math.Floor(info.Expiry.Sub(p.now()).Hours() / 24))
	return info
}

// splitHost returns the TLS server name and the dial address for a URL host.
func splitHost(host string) (string, string) {
	host = strings.ToLower(host)
	if h, port, err := net.SplitHostPort(host); err == nil {
		return h, net.JoinHostPort(h, port)
	}
	h := strings.Trim(host, "[]")
	return h, net.JoinHostPort(h, "443")
}
