// Package hosts orchestrates hosts file queries and mutations.
package hosts

import (
	"context"
	"fmt"
	"sync"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// Service serializes hosts file mutations. Every mutating call takes a
// backup first, re-reads the file, and records the outcome in History.
type Service struct {
	Hosts   ports.HostsRepository
	Backups ports.BackupService
	// History is optional.
	History ports.HistoryRepository
	Logger  ports.Logger

	mu sync.Mutex
}

// Find locates the first line containing hostname.
func (s *Service) Find(ctx context.Context, hostname string) (domain.HostsFileContext, error) {
	doc, err := s.Hosts.Read(ctx)
	if err != nil {
		return domain.HostsFileContext{}, err
	}
	found, ok := doc.Find(hostname)
	if !ok {
		return domain.HostsFileContext{}, domain.NewError(domain.KindNotFound, "find-host", fmt.Sprintf("%s not present in %s", hostname, s.Hosts.Path()), nil)
	}
	return found, nil
}

// Exists reports whether the canonical entry for hostname is active. Read
// failures degrade to false.
func (s *Service) Exists(ctx context.Context, hostname string) bool {
	doc, err := s.Hosts.Read(ctx)
	if err != nil {
		s.Logger.Warn("hosts file unreadable", map[string]interface{}{"path": s.Hosts.Path(), "error": err.Error()})
		return false
	}
	_, ok := doc.Entry(hostname)
	return ok
}

// Raw returns the hosts file text.
func (s *Service) Raw(ctx context.Context) (string, error) {
	return s.Hosts.Raw(ctx)
}

// Add appends "127.0.0.1 hostname" unless an identical line is already
// present anywhere in the file. cred is zeroed before returning.
func (s *Service) Add(ctx context.Context, hostname string, cred *domain.Credential) (domain.MutationResult, error) {
	defer cred.Zero()
	if err := domain.ValidateHostname(domain.OpAddHost, hostname); err != nil {
		return domain.MutationResult{Target: hostname}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := domain.MutationResult{Target: hostname, Backup: s.snapshot(ctx, cred)}
	err := s.mutate(ctx, cred, func(doc domain.HostsDocument) (domain.HostsDocument, bool) {
		line := domain.CanonicalHostLine(hostname)
		if doc.HasLine(line) {
			return doc, false
		}
		return doc.WithAppended(line), true
	}, &res)
	s.record(domain.OpAddHost, res, err)
	return res, err
}

// Delete removes every "127.0.0.1 hostname" line. Nothing is written when
// no line matches. cred is zeroed before returning.
func (s *Service) Delete(ctx context.Context, hostname string, cred *domain.Credential) (domain.MutationResult, error) {
	defer cred.Zero()
	if hostname == "" {
		return domain.MutationResult{}, domain.NewError(domain.KindInvalidInput, domain.OpDeleteHost, "hostname is empty", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := domain.MutationResult{Target: hostname, Backup: s.snapshot(ctx, cred)}
	err := s.mutate(ctx, cred, func(doc domain.HostsDocument) (domain.HostsDocument, bool) {
		next, removed := doc.WithoutHost(hostname)
		return next, removed > 0
	}, &res)
	s.record(domain.OpDeleteHost, res, err)
	return res, err
}

func (s *Service) mutate(ctx context.Context, cred *domain.Credential, edit func(domain.HostsDocument) (domain.HostsDocument, bool), res *domain.MutationResult) error {
	doc, err := s.Hosts.Read(ctx)
	if err != nil {
		return err
	}
	next, changed := edit(doc)
	if !changed {
		s.Logger.Debug("hosts file unchanged", map[string]interface{}{"target": res.Target})
		return nil
	}
	if err := s.Hosts.Write(ctx, next, cred); err != nil {
		return err
	}
	res.Changed = true
	s.Logger.Info("hosts file updated", map[string]interface{}{"target": res.Target, "path": s.Hosts.Path()})
	return nil
}

// snapshot backs up the hosts file. Failures are logged and the mutation
// proceeds.
func (s *Service) snapshot(ctx context.Context, cred *domain.Credential) *domain.BackupRecord {
	if s.Backups == nil {
		return nil
	}
	rec, err := s.Backups.Snapshot(ctx, cred)
	if err != nil {
		s.Logger.Warn("hosts backup failed", map[string]interface{}{"dir": s.Backups.Dir(), "error": err.Error()})
		return nil
	}
	return &rec
}

func (s *Service) record(op string, res domain.MutationResult, err error) {
	if s.History == nil {
		return
	}
	rec := domain.HistoryRecord{
		Operation: op,
		Target:    res.Target,
		Success:   err == nil,
		Changed:   res.Changed,
	}
	if res.Backup != nil {
		rec.BackupPath = res.Backup.Path
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if saveErr := s.History.Save(rec); saveErr != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": saveErr.Error()})
	}
}
