package truststore

import (
	"context"
	"path/filepath"
	"strings"

	"al.essio.dev/pkg/shellescape"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/result"
	"github.com/doeshing/hostwarden/internal/pkg/filesystem"
	"github.com/doeshing/hostwarden/internal/ports"
)

// DefaultKeychain is the login keychain of the current user.
func DefaultKeychain() string {
	return filepath.Join(filesystem.UserHomeDir(), "Library", "Keychains", "login.keychain-db")
}

// Keychain drives the macOS `security` tool. Trust changes raise the
// keychain's own authorization dialog, so mutations run through the plain
// runner and no password is relayed. Running them unelevated is deliberate:
// under sudo the user trust settings would land in root's domain.
type Keychain struct {
	runner   ports.CommandRunner
	keychain string
}

// NewKeychain builds a keychain backend.
func NewKeychain(runner ports.CommandRunner, keychain string) *Keychain {
	if keychain == "" {
		keychain = DefaultKeychain()
	}
	return &Keychain{runner: runner, keychain: keychain}
}

func (k *Keychain) Name() string { return "keychain" }

func (k *Keychain) RequiresCredential() bool { return false }

func (k *Keychain) Add(ctx context.Context, pemPath string, cred *domain.Credential) error {
	cred.Zero()
	outcome, err := k.runner.Run(ctx, domain.Command("security", "add-trusted-cert", "-k", k.keychain, pemPath), nil)
	return result.Translate(domain.OpAddCert, domain.KindCommandFailed, outcome, err)
}

// Certificates runs `security find-certificate -a -c subject -Z`. A search
// with no hits is an empty result, not an error.
func (k *Keychain) Certificates(ctx context.Context, subject string) ([]domain.Certificate, string, error) {
	args := []string{"find-certificate", "-a"}
	if subject != "" {
		args = append(args, "-c", subject)
	}
	args = append(args, "-Z", k.keychain)
	outcome, err := k.runner.Run(ctx, domain.Command("security", args...), nil)
	if err := result.Translate("find-cert", domain.KindCommandFailed, outcome, err); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, "", nil
		}
		return nil, "", err
	}
	var certs []domain.Certificate
	for _, cert := range ParseKeychainListing(outcome.Stdout) {
		if cert.Matches(subject) {
			certs = append(certs, cert)
		}
	}
	return certs, outcome.Stdout, nil
}

func (k *Keychain) Delete(ctx context.Context, fingerprint string, cred *domain.Credential) error {
	cred.Zero()
	outcome, err := k.runner.Run(ctx, domain.Command("security", "delete-certificate", "-Z", fingerprint, k.keychain), nil)
	return result.Translate(domain.OpRemoveFingerprint, domain.KindCommandFailed, outcome, err)
}

func (k *Keychain) ManualCommand(pemPath string) string {
	return shellescape.QuoteCommand([]string{"security", "add-trusted-cert", "-k", k.keychain, pemPath})
}

// ParseKeychainListing parses `security find-certificate -Z` output. Each
// certificate block starts with "SHA-256 hash:"; blocks without a SHA-1
// hash or a name are skipped.
func ParseKeychainListing(output string) []domain.Certificate {
	var certs []domain.Certificate
	for _, block := range strings.Split(output, "SHA-256 hash:") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		cert := domain.Certificate{Attributes: map[string]string{}}
		for i, raw := range strings.Split(block, "\n") {
			line := strings.TrimSpace(raw)
			switch {
			case i == 0:
				cert.SHA256 = line
			case strings.HasPrefix(line, "SHA-1 hash:"):
				cert.SHA1 = strings.TrimSpace(strings.TrimPrefix(line, "SHA-1 hash:"))
			case strings.HasPrefix(line, "keychain:"):
				cert.Keychain = unquote(strings.TrimPrefix(line, "keychain:"))
			case strings.Contains(line, `"alis"<blob>=`):
				cert.Name = blobValue(line)
			case strings.Contains(line, `"subj"<blob>=`):
				cert.Subject = blobValue(line)
			case strings.Contains(line, "<blob>="):
				key, value, _ := strings.Cut(line, "<blob>=")
				cert.Attributes[unquote(key)] = unquote(value)
			}
		}
		if cert.SHA1 != "" && cert.Name != "" {
			certs = append(certs, cert)
		}
	}
	return certs
}

func blobValue(line string) string {
	_, value, _ := strings.Cut(line, "<blob>=")
	return unquote(value)
}

func unquote(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}

var _ Backend = (*Keychain)(nil)
