package truststore

import (
	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// NewBackend picks the trust store backend for goos.
func NewBackend(goos string, cfg domain.TrustSettings, runner ports.CommandRunner, executor ports.ElevatedExecutor) Backend {
	switch goos {
	case "darwin":
		return NewKeychain(runner, cfg.Keychain)
	case "windows":
		return NewCertutil(runner, executor)
	default:
		return NewCADir(cfg.CADir, cfg.RefreshCommand, executor)
	}
}
