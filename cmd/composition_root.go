package cmd

import (
	"fmt"
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/intake"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	normalizer *intake.Normalizer
	scheduler  *services.DeliveryScheduler
	policy     order.TransitionPolicy
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	normalizer, err := intake.NewNormalizer()
	if err != nil {
		return nil, fmt.Errorf("failed to load the order schema: %w", err)
	}

	location, err := config.Location()
	if err != nil {
		return nil, fmt.Errorf("DELIVERY_TIMEZONE: %w", err)
	}

	policy, err := order.NewTransitionPolicy(config.StatusTransitionPolicy)
	if err != nil {
		return nil, fmt.Errorf("STATUS_TRANSITION_POLICY: %w", err)
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		normalizer: normalizer,
		scheduler:  services.NewDeliveryScheduler(location, logger),
		policy:     policy,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) ingestionUoWFactory() commands.IngestionUoWFactory {
	return FuncIngestionUoWFactory(func() commands.IngestionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) statusUoWFactory() commands.StatusUoWFactory {
	return FuncStatusUoWFactory(func() commands.StatusUoW {
		return c.uowFactory.Create()
	})
}

// stagingUoWFactory returns nil when staging is disabled.
func (c *CompositionRoot) stagingUoWFactory() commands.StagingUoWFactory {
	if !c.config.StageRawPayloads {
		return nil
	}
	return FuncStagingUoWFactory(func() commands.StagingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateIngestOrderCommandHandler() *commands.IngestOrderCommandHandler {
	return commands.NewIngestOrderCommandHandler(c.ingestionUoWFactory(), c.scheduler, c.logger)
}

func (c *CompositionRoot) CreateIngestPayloadCommandHandler() *commands.IngestPayloadCommandHandler {
	return commands.NewIngestPayloadCommandHandler(
		c.stagingUoWFactory(),
		c.normalizer,
		c.CreateIngestOrderCommandHandler(),
		c.config.IngestionActor,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRecordOrderStatusCommandHandler() *commands.RecordOrderStatusCommandHandler {
	return commands.NewRecordOrderStatusCommandHandler(c.statusUoWFactory(), c.policy)
}

func (c *CompositionRoot) CreateRecordLineItemStatusCommandHandler() *commands.RecordLineItemStatusCommandHandler {
	return commands.NewRecordLineItemStatusCommandHandler(c.statusUoWFactory(), c.policy)
}

func (c *CompositionRoot) CreateReplayStagedOrdersCommandHandler() *commands.ReplayStagedOrdersCommandHandler {
	return commands.NewReplayStagedOrdersCommandHandler(
		c.stagingUoWFactory(),
		c.CreateIngestPayloadCommandHandler(),
		c.config.ReplayConcurrency,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderStatusHistoryQueryHandler() queries.GetOrderStatusHistoryQueryHandler {
	return queries.NewGetOrderStatusHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLineItemStatusHistoryQueryHandler() queries.GetLineItemStatusHistoryQueryHandler {
	return queries.NewGetLineItemStatusHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer(metrics *httpin.Metrics) *httpin.Server {
	return httpin.NewServer(
		c.CreateIngestPayloadCommandHandler(),
		c.CreateRecordOrderStatusCommandHandler(),
		c.CreateRecordLineItemStatusCommandHandler(),
		c.CreateGetOrderStatusHistoryQueryHandler(),
		c.CreateGetLineItemStatusHistoryQueryHandler(),
		metrics,
		c.logger,
	)
}

// CreateMetrics registers the HTTP collectors with reg.
func (c *CompositionRoot) CreateMetrics(reg prometheus.Registerer) (*httpin.Metrics, error) {
	return httpin.NewMetrics(reg)
}

// CreateJobManager returns the scheduled jobs. Without staging there is nothing to
// replay and the manager is empty.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	if !c.config.StageRawPayloads {
		return jobs.NewJobManager(), nil
	}

	cmd, err := commands.NewReplayStagedOrdersCommand(c.config.ReplayBatchSize, c.config.ReplayMaxAttempts)
	if err != nil {
		return nil, err
	}

	replay := jobs.NewStagedOrderReplayJob(c.CreateReplayStagedOrdersCommandHandler(), cmd, c.config.ReplaySchedule, c.logger)
	return jobs.NewJobManager(replay), nil
}

type FuncIngestionUoWFactory func() commands.IngestionUoW

func (f FuncIngestionUoWFactory) Create() commands.IngestionUoW {
	return f()
}

type FuncStatusUoWFactory func() commands.StatusUoW

func (f FuncStatusUoWFactory) Create() commands.StatusUoW {
	return f()
}

type FuncStagingUoWFactory func() commands.StagingUoW

func (f FuncStagingUoWFactory) Create() commands.StagingUoW {
	return f()
}
