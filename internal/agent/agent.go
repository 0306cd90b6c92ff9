package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/goindex/internal/config"
	"github.com/mwantia/goindex/pkg/annotation"
	"github.com/mwantia/goindex/pkg/db/store"
	"github.com/mwantia/goindex/pkg/importer"
	"github.com/mwantia/goindex/pkg/log"
	"github.com/mwantia/goindex/pkg/relation"
	"github.com/mwantia/goindex/pkg/scanner"
	"gorm.io/gorm/logger"
)

// GoIndexAgent wires the index store and the components working on it
type GoIndexAgent struct {
	mutex sync.RWMutex

	cfg *config.BaseConfig
	sc  *container.ServiceContainer
	log log.LoggerService

	store       *store.SQLiteStore
	scanner     *scanner.Scanner
	annotations *annotation.Manager
	relations   *relation.Graph
	importer    *importer.Importer
}

func NewAgent(cfg *config.BaseConfig) *GoIndexAgent {
	return &GoIndexAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService("goindex", cfg.Log),
	}
}

// Open connects and migrates the store, then builds every component
func (gia *GoIndexAgent) Open(ctx context.Context) error {
	gia.mutex.Lock()
	defer gia.mutex.Unlock()

	if gia.store != nil {
		return nil
	}

	s, err := gia.openStore(ctx)
	if err != nil {
		return err
	}
	gia.store = s

	if err := gia.setupServices(); err != nil {
		return errors.Join(err, gia.closeStore())
	}

	if err := gia.setupComponents(ctx); err != nil {
		return errors.Join(err, gia.closeStore())
	}

	return nil
}

func (gia *GoIndexAgent) openStore(ctx context.Context) (*store.SQLiteStore, error) {
	if gia.cfg.Metadata.Type != "sqlite" {
		return nil, fmt.Errorf("unsupported metadata store type '%s'", gia.cfg.Metadata.Type)
	}

	level := logger.Silent
	if log.Parse(gia.cfg.Log.Level) == log.Debug {
		level = logger.Info
	}

	s, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:     gia.cfg.Metadata.SQLite.Path,
		LogLevel: level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}

	if err := s.Connect(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect index store: %w", err)
	}

	gia.log.Debug("Running migrations on '%s'...", s.Path())
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to migrate index store: %w", err)
	}

	return s, nil
}

func (gia *GoIndexAgent) setupServices() error {
	errs := container.Errors{}

	gia.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](gia.sc,
		container.With[log.LoggerService](),
		container.WithInstance(gia.log)))

	gia.log.Debug("Registering 'IndexStore'...")
	errs.Add(container.Register[store.SQLiteStore](gia.sc,
		container.With[store.IndexStore](),
		container.WithInstance(gia.store)))

	return errs.Errors()
}

// setupComponents builds every component on the services registered in the container
func (gia *GoIndexAgent) setupComponents(ctx context.Context) error {
	index, err := store.Resolve(ctx, gia.sc)
	if err != nil {
		return err
	}

	named := func(name string) log.LoggerService {
		l, err := log.Resolve(ctx, gia.sc, name)
		if err != nil {
			gia.log.Warn("Falling back to base logger for '%s': %v", name, err)
			return gia.log.Named(name)
		}
		return l
	}

	scan := gia.cfg.Scanner
	gia.scanner = scanner.NewScanner(index, scanner.RulesFromConfig(scan), named("scanner"),
		scanner.WithBatchSize(scan.BatchSize),
		scanner.WithPathLengthLimit(scan.PathLengthLimit),
		scanner.WithMaxFilenameLength(scan.MaxFilenameLength))

	var opts []annotation.Option
	if gia.cfg.Tags.Normalize {
		opts = append(opts, annotation.WithTagNormalizer(annotation.NormalizeTag))
	}
	gia.annotations = annotation.NewManager(index, named("annotation"), opts...)

	gia.relations = relation.NewGraph(index, relation.StoreResolvers(index), named("relation"))
	gia.importer = importer.NewImporter(index, named("importer"))

	return nil
}

// Close releases registered services and the store connection
func (gia *GoIndexAgent) Close() error {
	gia.mutex.Lock()
	defer gia.mutex.Unlock()

	if gia.store == nil {
		return nil
	}

	timeout, err := time.ParseDuration(gia.cfg.ShutdownTimeout)
	if err != nil {
		// Set default of 60 seconds if error
		timeout = 60 * time.Second
	}

	shutdown, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := gia.sc.Cleanup(shutdown); err != nil {
		errs = append(errs, fmt.Errorf("failed to complete service container cleanup: %w", err))
	}
	errs = append(errs, gia.closeStore())

	return errors.Join(errs...)
}

func (gia *GoIndexAgent) closeStore() error {
	if gia.store == nil {
		return nil
	}
	err := gia.store.Close()
	gia.store = nil
	if err != nil {
		return fmt.Errorf("failed to close index store: %w", err)
	}
	return nil
}

func (gia *GoIndexAgent) Logger() log.LoggerService {
	return gia.log
}

func (gia *GoIndexAgent) Store() *store.SQLiteStore {
	gia.mutex.RLock()
	defer gia.mutex.RUnlock()
	return gia.store
}

func (gia *GoIndexAgent) Scanner() *scanner.Scanner {
	gia.mutex.RLock()
	defer gia.mutex.RUnlock()
	return gia.scanner
}

func (gia *GoIndexAgent) Annotations() *annotation.Manager {
	gia.mutex.RLock()
	defer gia.mutex.RUnlock()
	return gia.annotations
}

func (gia *GoIndexAgent) Relations() *relation.Graph {
	gia.mutex.RLock()
	defer gia.mutex.RUnlock()
	return gia.relations
}

func (gia *GoIndexAgent) Importer() *importer.Importer {
	gia.mutex.RLock()
	defer gia.mutex.RUnlock()
	return gia.importer
}

// Run loads the configuration, opens an agent for the duration of fn and closes it afterwards
func Run(ctx context.Context, fn func(ctx context.Context, gia *GoIndexAgent) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gia := NewAgent(cfg)
	if err := gia.Open(ctx); err != nil {
		return err
	}

	err = fn(ctx, gia)
	if cerr := gia.Close(); cerr != nil {
		gia.log.Warn("Failed to close agent: %v", cerr)
	}
	return err
}
