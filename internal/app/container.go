package app

import (
	"context"
	"runtime"
	"strings"

	"github.com/doeshing/hostwarden/internal/application/doctor"
	"github.com/doeshing/hostwarden/internal/application/hosts"
	"github.com/doeshing/hostwarden/internal/application/trust"
	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/backup"
	"github.com/doeshing/hostwarden/internal/infrastructure/config"
	"github.com/doeshing/hostwarden/internal/infrastructure/history"
	"github.com/doeshing/hostwarden/internal/infrastructure/hostsfile"
	"github.com/doeshing/hostwarden/internal/infrastructure/privilege"
	"github.com/doeshing/hostwarden/internal/infrastructure/truststore"
	"github.com/doeshing/hostwarden/internal/pkg/logger"
	"github.com/doeshing/hostwarden/internal/ports"
)

// Options tune container construction from CLI flags.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         ports.Logger
	Executor       ports.ElevatedExecutor
	HostsService   *hosts.Service
	TrustService   *trust.Service
	DoctorService  *doctor.Service
	Backups        ports.BackupService
	HistoryStore   ports.HistoryRepository
}

// BuildContainer constructs the dependency graph for runtime.GOOS.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(nil, cfg.Logging.Level, opts.Verbose)
	runner := privilege.NewLocalRunner(log)
	executor := privilege.NewElevatedExecutor(runtime.GOOS, runner)

	hostsStore := hostsfile.NewStore(cfg.Hosts.File, executor, log)
	backups := backup.NewManager(cfg.Hosts.BackupDir, hostsStore.Path(), executor)
	trustStore := truststore.NewManager(truststore.NewBackend(runtime.GOOS, cfg.Trust, runner, executor), log)

	var historyStore ports.HistoryRepository
	if cfg.History.Enabled {
		historyStore = history.NewSQLiteStore(cfg.History.Path)
	}

	hostsService := &hosts.Service{
		Hosts:   hostsStore,
		Backups: backups,
		History: historyStore,
		Logger:  log,
	}

	trustService := &trust.Service{
		Store:     trustStore,
		Generator: truststore.NewGenerator(cfg.Trust.CertDir),
		History:   historyStore,
		Logger:    log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Hosts:          hostsStore,
		Backups:        backups,
		Executor:       executor,
		TrustStore:     trustStore,
		History:        historyStore,
		Tools:          platformTools(runtime.GOOS, cfg.Trust),
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Executor:       executor,
		HostsService:   hostsService,
		TrustService:   trustService,
		DoctorService:  doctorService,
		Backups:        backups,
		HistoryStore:   historyStore,
	}, nil
}

// platformTools lists the executables the selected backends shell out to.
func platformTools(goos string, trustCfg domain.TrustSettings) []string {
	switch goos {
	case "windows":
		return []string{"powershell.exe", "certutil"}
	case "darwin":
		return []string{"sudo", "cp", "security"}
	default:
		tools := []string{"sudo", "cp", "rm"}
		refresh := strings.Fields(trustCfg.RefreshCommand)
		if len(refresh) > 0 {
			tools = append(tools, refresh[0])
		}
		return tools
	}
}
