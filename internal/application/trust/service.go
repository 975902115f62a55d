// Package trust orchestrates trust store changes and host certificate
// generation.
package trust

import (
	"context"
	"sync"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// Service serializes trust store mutations and records them in History.
type Service struct {
	Store     ports.TrustStore
	Generator ports.CertificateGenerator
	// History is optional.
	History ports.HistoryRepository
	Logger  ports.Logger

	mu sync.Mutex
}

// Add installs the certificate at pemPath. cred is zeroed before returning.
func (s *Service) Add(ctx context.Context, pemPath string, cred *domain.Credential) error {
	defer cred.Zero()
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.Store.Add(ctx, pemPath, cred)
	s.record(domain.OpAddCert, pemPath, err)
	return err
}

// Remove resolves nameOrFingerprint to one certificate and deletes it.
func (s *Service) Remove(ctx context.Context, nameOrFingerprint string, cred *domain.Credential) (domain.Certificate, error) {
	defer cred.Zero()
	s.mu.Lock()
	defer s.mu.Unlock()

	cert, err := s.Store.Remove(ctx, nameOrFingerprint, cred)
	target := nameOrFingerprint
	if cert.SHA1 != "" {
		target = nameOrFingerprint + " (" + cert.SHA1 + ")"
	}
	s.record(domain.OpRemoveCert, target, err)
	return cert, err
}

// RemoveByFingerprint deletes the certificate with the given SHA-1 hash.
func (s *Service) RemoveByFingerprint(ctx context.Context, fingerprint string, cred *domain.Credential) error {
	defer cred.Zero()
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.Store.RemoveByFingerprint(ctx, fingerprint, cred)
	s.record(domain.OpRemoveFingerprint, domain.NormalizeFingerprint(fingerprint), err)
	return err
}

// Exists reports whether a certificate matching subject is installed.
func (s *Service) Exists(ctx context.Context, subject string) bool {
	return s.Store.Exists(ctx, subject)
}

// Find returns the parsed certificates matching subject.
func (s *Service) Find(ctx context.Context, subject string) ([]domain.Certificate, error) {
	return s.Store.Find(ctx, subject)
}

// List returns the raw trust store listing for subject.
func (s *Service) List(ctx context.Context, subject string) (string, error) {
	return s.Store.List(ctx, subject)
}

// RequiresCredential reports whether mutations need a password.
func (s *Service) RequiresCredential() bool {
	return s.Store.RequiresCredential()
}

// Generate writes a self-signed certificate for hostname.
func (s *Service) Generate(hostname string) (domain.CertificateBundle, error) {
	bundle, err := s.Generator.Generate(hostname)
	s.record(domain.OpGenerateCert, hostname, err)
	if err == nil {
		s.Logger.Info("certificate generated", map[string]interface{}{"hostname": hostname, "dir": bundle.Dir, "sha1": bundle.SHA1})
	}
	return bundle, err
}

// ManualCommand renders the command that trusts hostname's generated
// certificate by hand.
func (s *Service) ManualCommand(hostname string) (string, error) {
	if err := domain.ValidateHostname("manual-command", hostname); err != nil {
		return "", err
	}
	return s.Store.ManualCommand(s.Generator.PathFor(hostname)), nil
}

func (s *Service) record(op, target string, err error) {
	if s.History == nil {
		return
	}
	rec := domain.HistoryRecord{Operation: op, Target: target, Success: err == nil, Changed: err == nil}
	if err != nil {
		rec.Error = err.Error()
	}
	if saveErr := s.History.Save(rec); saveErr != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": saveErr.Error()})
	}
}
