package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/common"
	"github.com/upcn/formu/internal/handlers"
	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/parser"
	"github.com/upcn/formu/internal/services/concepts"
	"github.com/upcn/formu/internal/services/index"
	"github.com/upcn/formu/internal/services/payroll"
	"github.com/upcn/formu/internal/services/scheduler"
	"github.com/upcn/formu/internal/storage/sqldb"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB            *sqldb.DB
	ConceptCorpus interfaces.ConceptCorpus
	PayrollStore  interfaces.PayrollStore

	// Core services
	Parser           *parser.Parser
	Index            interfaces.DependencyIndex
	ConceptService   *concepts.Service
	PayrollService   *payroll.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	ConceptHandler *handlers.ConceptHandler
	PayrollHandler *handlers.PayrollHandler
}

// New creates the application with all services wired up. The dependency
// index is built synchronously so the first request sees a ready index; a
// failed initial build is logged and left to the scheduler to retry.
func New(ctx context.Context, config *common.Config) (*App, error) {
	logger := common.GetLogger()

	a := &App{
		Config: config,
		Logger: logger,
	}

	db, err := sqldb.NewDB(logger, &config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db
	a.ConceptCorpus = sqldb.NewConceptStorage(db, logger)
	a.PayrollStore = sqldb.NewPayrollStorage(db, logger)

	a.Parser = parser.New(parser.NewRegistry())
	a.Index = index.NewService(a.ConceptCorpus, a.Parser, logger, config.Cache.ExpirationMinutes)
	a.ConceptService = concepts.NewService(a.ConceptCorpus, a.Parser, a.Index, logger)
	a.PayrollService = payroll.NewService(a.PayrollStore, &config.Payroll, logger)

	if err := a.Index.Build(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial index build failed, scheduler will retry")
	}

	a.SchedulerService = scheduler.NewService(a.Index, logger)
	if err := a.SchedulerService.Start(config.Cache.ExpirationMinutes); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	a.APIHandler = handlers.NewAPIHandler(a.Index)
	a.ConceptHandler = handlers.NewConceptHandler(a.ConceptService)
	a.PayrollHandler = handlers.NewPayrollHandler(a.PayrollService)

	logger.Info().Msg("Application initialized")
	return a, nil
}

// Close closes all application resources
func (a *App) Close() error {
	if a.SchedulerService != nil {
		a.SchedulerService.Stop()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close database")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
