// Package truststore adds, finds and removes certificates in the OS trust
// store. Platform specifics live in Backend implementations; Manager owns
// name resolution and the degrade-to-negative policy for lookups.
package truststore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// Backend is one platform trust store.
type Backend interface {
	Name() string
	RequiresCredential() bool
	Add(ctx context.Context, pemPath string, cred *domain.Credential) error
	// Certificates returns the parsed entries matching subject and the raw
	// tool listing they were parsed from.
	Certificates(ctx context.Context, subject string) ([]domain.Certificate, string, error)
	Delete(ctx context.Context, fingerprint string, cred *domain.Credential) error
	ManualCommand(pemPath string) string
}

// Manager implements ports.TrustStore over a Backend.
type Manager struct {
	backend Backend
	logger  ports.Logger
}

// NewManager builds a manager.
func NewManager(backend Backend, logger ports.Logger) *Manager {
	return &Manager{backend: backend, logger: logger}
}

func (m *Manager) Backend() string { return m.backend.Name() }

func (m *Manager) RequiresCredential() bool { return m.backend.RequiresCredential() }

// Add installs the PEM file.
func (m *Manager) Add(ctx context.Context, pemPath string, cred *domain.Credential) error {
	info, err := os.Stat(pemPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewError(domain.KindNotFound, domain.OpAddCert, pemPath, err)
		}
		return domain.NewError(domain.KindIOFailure, domain.OpAddCert, pemPath, err)
	}
	if info.IsDir() {
		return domain.NewError(domain.KindIOFailure, domain.OpAddCert, pemPath+" is a directory", nil)
	}
	return m.backend.Add(ctx, pemPath, cred)
}

// Find returns certificates whose subject contains subject.
func (m *Manager) Find(ctx context.Context, subject string) ([]domain.Certificate, error) {
	certs, _, err := m.backend.Certificates(ctx, subject)
	return certs, err
}

// List returns the raw tool listing for subject.
func (m *Manager) List(ctx context.Context, subject string) (string, error) {
	_, raw, err := m.backend.Certificates(ctx, subject)
	return raw, err
}

// Exists reports whether any certificate matches subject. Lookup failures
// degrade to false.
func (m *Manager) Exists(ctx context.Context, subject string) bool {
	certs, _, err := m.backend.Certificates(ctx, subject)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("certificate lookup failed", map[string]interface{}{"subject": subject, "error": err.Error()})
		}
		return false
	}
	return len(certs) > 0
}

// Remove resolves nameOrFingerprint to a single certificate and deletes it
// by fingerprint.
func (m *Manager) Remove(ctx context.Context, nameOrFingerprint string, cred *domain.Credential) (domain.Certificate, error) {
	ref := domain.RefFor(nameOrFingerprint)
	if ref.Fingerprint != "" {
		return domain.Certificate{SHA1: ref.Fingerprint}, m.RemoveByFingerprint(ctx, ref.Fingerprint, cred)
	}

	certs, _, err := m.backend.Certificates(ctx, ref.SubjectName)
	if err != nil {
		return domain.Certificate{}, err
	}
	target, err := Resolve(ref.SubjectName, certs)
	if err != nil {
		return domain.Certificate{}, err
	}
	if m.logger != nil {
		m.logger.Info("resolved certificate", map[string]interface{}{"name": target.Name, "sha1": target.SHA1})
	}
	return target, m.backend.Delete(ctx, target.SHA1, cred)
}

// RemoveByFingerprint deletes without a resolution step.
func (m *Manager) RemoveByFingerprint(ctx context.Context, fingerprint string, cred *domain.Credential) error {
	fp := domain.NormalizeFingerprint(fingerprint)
	if fp == "" {
		return domain.NewError(domain.KindNotFound, domain.OpRemoveFingerprint, "empty fingerprint", nil)
	}
	return m.backend.Delete(ctx, fp, cred)
}

// ManualCommand renders the command a user can run to trust pemPath by hand.
func (m *Manager) ManualCommand(pemPath string) string {
	return m.backend.ManualCommand(pemPath)
}

// Resolve picks exactly one certificate for name. A single exact name match
// wins; otherwise a single substring candidate wins. Zero candidates is
// NotFound, several is AmbiguousMatch.
func Resolve(name string, certs []domain.Certificate) (domain.Certificate, error) {
	var exact, partial []domain.Certificate
	for _, cert := range certs {
		if cert.SHA1 == "" {
			continue
		}
		if cert.Name == name {
			exact = append(exact, cert)
		}
		if cert.Matches(name) {
			partial = append(partial, cert)
		}
	}

	candidates := exact
	if len(candidates) == 0 {
		candidates = partial
	}
	switch len(candidates) {
	case 0:
		return domain.Certificate{}, domain.NewError(domain.KindNotFound, domain.OpRemoveCert, fmt.Sprintf("no certificate matches %q", name), nil)
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = fmt.Sprintf("%s (%s)", c.Name, c.SHA1)
		}
		return domain.Certificate{}, domain.NewError(domain.KindAmbiguousMatch, domain.OpRemoveCert,
			fmt.Sprintf("%d certificates match %q: %s", len(candidates), name, strings.Join(names, ", ")), nil)
	}
}

var _ ports.TrustStore = (*Manager)(nil)
