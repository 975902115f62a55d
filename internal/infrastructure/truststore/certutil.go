package truststore

import (
	"context"
	"strings"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/privilege"
	"github.com/doeshing/hostwarden/internal/infrastructure/result"
	"github.com/doeshing/hostwarden/internal/ports"
)

// Certutil manages the current-user Root store on Windows. Mutations go
// through the UAC executor; listing needs no elevation.
type Certutil struct {
	runner   ports.CommandRunner
	executor ports.ElevatedExecutor
}

// NewCertutil builds a certutil backend.
func NewCertutil(runner ports.CommandRunner, executor ports.ElevatedExecutor) *Certutil {
	return &Certutil{runner: runner, executor: executor}
}

func (c *Certutil) Name() string { return "certutil" }

func (c *Certutil) RequiresCredential() bool { return c.executor.RequiresCredential() }

func (c *Certutil) Add(ctx context.Context, pemPath string, cred *domain.Credential) error {
	outcome, err := c.executor.RunElevated(ctx, domain.Command("certutil", "-user", "-addstore", "Root", pemPath), cred)
	return result.Translate(domain.OpAddCert, domain.KindCommandFailed, outcome, err)
}

func (c *Certutil) Certificates(ctx context.Context, subject string) ([]domain.Certificate, string, error) {
	outcome, err := c.runner.Run(ctx, domain.Command("certutil", "-user", "-store", "Root"), nil)
	if err := result.Translate("find-cert", domain.KindCommandFailed, outcome, err); err != nil {
		return nil, "", err
	}
	var certs []domain.Certificate
	var blocks []string
	for _, block := range splitCertutilBlocks(outcome.Stdout) {
		cert, ok := parseCertutilBlock(block)
		if !ok || !cert.Matches(subject) {
			continue
		}
		certs = append(certs, cert)
		blocks = append(blocks, block)
	}
	return certs, strings.Join(blocks, "\n"), nil
}

func (c *Certutil) Delete(ctx context.Context, fingerprint string, cred *domain.Credential) error {
	outcome, err := c.executor.RunElevated(ctx, domain.Command("certutil", "-user", "-delstore", "Root", fingerprint), cred)
	return result.Translate(domain.OpRemoveFingerprint, domain.KindCommandFailed, outcome, err)
}

func (c *Certutil) ManualCommand(pemPath string) string {
	return "certutil -user -addstore Root " + privilege.EscapeArg(pemPath)
}

// ParseCertutilListing parses `certutil -store` output.
func ParseCertutilListing(output string) []domain.Certificate {
	var certs []domain.Certificate
	for _, block := range splitCertutilBlocks(output) {
		if cert, ok := parseCertutilBlock(block); ok {
			certs = append(certs, cert)
		}
	}
	return certs
}

func splitCertutilBlocks(output string) []string {
	output = strings.ReplaceAll(output, "\r\n", "\n")
	parts := strings.Split(output, "================ Certificate")
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}

func parseCertutilBlock(block string) (domain.Certificate, bool) {
	var cert domain.Certificate
	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "Subject:"):
			cert.Subject = strings.TrimSpace(strings.TrimPrefix(line, "Subject:"))
			cert.Name = commonName(cert.Subject)
		case strings.HasPrefix(line, "Cert Hash(sha1):"):
			cert.SHA1 = domain.NormalizeFingerprint(strings.TrimPrefix(line, "Cert Hash(sha1):"))
		case strings.HasPrefix(line, "Cert Hash(sha256):"):
			cert.SHA256 = domain.NormalizeFingerprint(strings.TrimPrefix(line, "Cert Hash(sha256):"))
		}
	}
	return cert, cert.SHA1 != ""
}

// commonName extracts CN from a distinguished name, or returns dn unchanged.
func commonName(dn string) string {
	for _, part := range strings.Split(dn, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToUpper(part), "CN=") {
			return part[3:]
		}
	}
	return dn
}

var _ Backend = (*Certutil)(nil)
