package truststore

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"al.essio.dev/pkg/shellescape"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/result"
	"github.com/doeshing/hostwarden/internal/ports"
)

const (
	// DefaultCADir is the Debian family anchor directory.
	DefaultCADir = "/usr/local/share/ca-certificates"
	// DefaultRefreshCommand rebuilds the system bundle from DefaultCADir.
	DefaultRefreshCommand = "update-ca-certificates"

	anchorPrefix = "hostwarden-"
	// anchorFingerprintLen is the number of fingerprint digits in an anchor name.
	anchorFingerprintLen = 8
)

var unsafeAnchorChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CADir manages PEM anchors in a CA directory on Linux. Copies, removals and
// the bundle refresh run through the sudo executor.
type CADir struct {
	dir      string
	refresh  []string
	executor ports.ElevatedExecutor
}

// NewCADir builds a CA directory backend.
func NewCADir(dir, refresh string, executor ports.ElevatedExecutor) *CADir {
	if dir == "" {
		dir = DefaultCADir
	}
	if strings.TrimSpace(refresh) == "" {
		refresh = DefaultRefreshCommand
	}
	return &CADir{dir: dir, refresh: strings.Fields(refresh), executor: executor}
}

func (c *CADir) Name() string { return "ca-dir" }

func (c *CADir) RequiresCredential() bool { return c.executor.RequiresCredential() }

// Add copies pemPath into the directory as hostwarden-<cn>-<fp>.crt and refreshes.
func (c *CADir) Add(ctx context.Context, pemPath string, cred *domain.Credential) error {
	cert, err := readCertificate(pemPath)
	if err != nil {
		return domain.NewError(domain.KindIOFailure, domain.OpAddCert, pemPath, err)
	}
	fingerprint := describe(cert, pemPath).SHA1
	dest := filepath.Join(c.dir, AnchorFileName(cert.Subject.CommonName, pemPath, fingerprint))
	outcome, err := c.executor.RunElevated(ctx, domain.Command("cp", pemPath, dest), cred)
	if err := result.Translate(domain.OpAddCert, domain.KindCommandFailed, outcome, err); err != nil {
		return err
	}
	return c.refreshBundle(ctx, domain.OpAddCert, cred)
}

// Certificates parses every .crt and .pem file in the directory.
func (c *CADir) Certificates(ctx context.Context, subject string) ([]domain.Certificate, string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", nil
		}
		return nil, "", domain.NewError(domain.KindIOFailure, "find-cert", c.dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var certs []domain.Certificate
	var raw strings.Builder
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".crt" && ext != ".pem") {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		parsed, err := readCertificate(path)
		if err != nil {
			continue
		}
		cert := describe(parsed, path)
		if !cert.Matches(subject) {
			continue
		}
		certs = append(certs, cert)
		fmt.Fprintf(&raw, "%s\n    subject: %s\n    SHA-1: %s\n    SHA-256: %s\n", cert.Path, cert.Subject, cert.SHA1, cert.SHA256)
	}
	return certs, raw.String(), nil
}

// Delete removes every anchor with the fingerprint and refreshes the bundle.
func (c *CADir) Delete(ctx context.Context, fingerprint string, cred *domain.Credential) error {
	certs, _, err := c.Certificates(ctx, "")
	if err != nil {
		return err
	}
	fp := domain.NormalizeFingerprint(fingerprint)
	var paths []string
	for _, cert := range certs {
		if cert.SHA1 == fp || cert.SHA256 == fp {
			paths = append(paths, cert.Path)
		}
	}
	if len(paths) == 0 {
		return domain.NewError(domain.KindNotFound, domain.OpRemoveFingerprint, fmt.Sprintf("no anchor in %s has fingerprint %s", c.dir, fp), nil)
	}
	args := append([]string{"-f", "--"}, paths...)
	outcome, err := c.executor.RunElevated(ctx, domain.Command("rm", args...), cred)
	if err := result.Translate(domain.OpRemoveFingerprint, domain.KindCommandFailed, outcome, err); err != nil {
		return err
	}
	return c.refreshBundle(ctx, domain.OpRemoveFingerprint, cred)
}

func (c *CADir) ManualCommand(pemPath string) string {
	dest := filepath.Join(c.dir, AnchorFileName("", pemPath, ""))
	return shellescape.QuoteCommand([]string{"sudo", "cp", pemPath, dest}) + " && " +
		shellescape.QuoteCommand(append([]string{"sudo"}, c.refresh...))
}

func (c *CADir) refreshBundle(ctx context.Context, op string, cred *domain.Credential) error {
	outcome, err := c.executor.RunElevated(ctx, domain.Command(c.refresh[0], c.refresh[1:]...), cred)
	return result.Translate(op, domain.KindCommandFailed, outcome, err)
}

// AnchorFileName names the anchor installed for a certificate. The common
// name is preferred; the PEM file's base name is the fallback. The first
// eight hex digits of the SHA-1 fingerprint, when given, keep certificates
// that share a common name in separate files.
func AnchorFileName(commonName, pemPath, fingerprint string) string {
	base := commonName
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(pemPath), filepath.Ext(pemPath))
	}
	base = strings.Trim(unsafeAnchorChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "certificate"
	}
	if fp := domain.NormalizeFingerprint(fingerprint); fp != "" {
		if len(fp) > anchorFingerprintLen {
			fp = fp[:anchorFingerprintLen]
		}
		base += "-" + unsafeAnchorChars.ReplaceAllString(fp, "_")
	}
	return anchorPrefix + base + ".crt"
}

func readCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("%s: no PEM certificate block", path)
	}
	return x509.ParseCertificate(block.Bytes)
}

func describe(cert *x509.Certificate, path string) domain.Certificate {
	sum1 := sha1.Sum(cert.Raw)
	sum256 := sha256.Sum256(cert.Raw)
	name := cert.Subject.CommonName
	if name == "" {
		name = filepath.Base(path)
	}
	return domain.Certificate{
		Name:    name,
		Subject: cert.Subject.String(),
		SHA1:    strings.ToUpper(hex.EncodeToString(sum1[:])),
		SHA256:  strings.ToUpper(hex.EncodeToString(sum256[:])),
		Path:    path,
	}
}

var _ Backend = (*CADir)(nil)
