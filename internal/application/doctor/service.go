// Package doctor diagnoses whether hostwarden can operate on this machine.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	appconfig "github.com/doeshing/hostwarden/internal/application/config"
	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Hosts          ports.HostsRepository
	Backups        ports.BackupService
	Executor       ports.ElevatedExecutor
	TrustStore     ports.TrustStore
	History        ports.HistoryRepository
	// Tools lists the executables the selected backends invoke.
	Tools []string
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))
	}

	if s.Hosts != nil {
		if doc, err := s.Hosts.Read(ctx); err != nil {
			checks = append(checks, fail("Hosts file", err.Error()))
		} else {
			checks = append(checks, ok("Hosts file", fmt.Sprintf("%s (%d lines)", s.Hosts.Path(), doc.Len())))
		}
	}

	if s.Backups != nil {
		checks = append(checks, dirCheck("Backup directory", s.Backups.Dir()))
	}
	if cfg.Trust.CertDir != "" {
		checks = append(checks, dirCheck("Certificate directory", cfg.Trust.CertDir))
	}

	if s.Executor != nil {
		checks = append(checks, ok("Elevation", s.Executor.Name()))
	}
	if s.TrustStore != nil {
		checks = append(checks, ok("Trust store", s.TrustStore.Backend()))
	}
	checks = append(checks, s.toolChecks()...)

	switch {
	case !cfg.History.Enabled:
		checks = append(checks, warn("History", "disabled"))
	case s.History == nil:
		checks = append(checks, warn("History", "store not initialized"))
	default:
		if _, err := s.History.Records(1, ""); err != nil {
			checks = append(checks, fail("History", err.Error()))
		} else {
			checks = append(checks, ok("History", s.History.Path()))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) toolChecks() []domain.HealthCheck {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	checks := make([]domain.HealthCheck, 0, len(s.Tools))
	for _, tool := range s.Tools {
		path, err := lookPath(tool)
		if err != nil {
			checks = append(checks, fail("Tool "+tool, "not found on PATH"))
			continue
		}
		checks = append(checks, ok("Tool "+tool, path))
	}
	return checks
}

// dirCheck creates dir if needed and probes it with a temp file.
func dirCheck(name, dir string) domain.HealthCheck {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail(name, err.Error())
	}
	probe, err := os.CreateTemp(dir, ".hostwarden-probe-*")
	if err != nil {
		return fail(name, fmt.Sprintf("%s not writable: %v", dir, err))
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	return ok(name, dir)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
