package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/allergy-scan/config"
	historydomain "github.com/tair/allergy-scan/internal/history/domain"
	historyrepo "github.com/tair/allergy-scan/internal/history/repository"
	historycommand "github.com/tair/allergy-scan/internal/history/usecase/command"
	"github.com/tair/allergy-scan/internal/state"
	"github.com/tair/allergy-scan/kafka"
	"github.com/tair/allergy-scan/pkg/database"
	"github.com/tair/allergy-scan/pkg/logger"
)

const redisKeyPrefix = "allergyscan:"

// Infrastructure holds the external connections chosen by configuration
type Infrastructure struct {
	KV      state.KV
	Redis   *redis.Client
	DB      *gorm.DB
	History historydomain.EntryRepository

	Publisher kafka.EventPublisher
	Consumer  *kafka.Consumer

	closers []func() error
}

// NewInfrastructure connects the state backend, the product cache and the
// event transport. The activity recorder is subscribed to every event type.
func NewInfrastructure(cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{}
	if err := infra.connectState(cfg); err != nil {
		infra.Close()
		return nil, err
	}
	if err := infra.connectEvents(cfg); err != nil {
		infra.Close()
		return nil, err
	}
	return infra, nil
}

func (i *Infrastructure) connectState(cfg *config.Config) error {
	if cfg.StateBackend == config.BackendRedis || cfg.LookupCacheTTL > 0 {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		i.Redis = client
		i.closers = append(i.closers, client.Close)
		logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	}

	switch cfg.StateBackend {
	case config.BackendMemory:
		i.KV = state.NewMemory()
		i.History = historyrepo.NewMemoryEntryRepository()

	case config.BackendRedis:
		i.KV = state.NewRedisKV(i.Redis, redisKeyPrefix)
		i.History = historyrepo.NewMemoryEntryRepository()

	case config.BackendPostgres:
		db, err := database.NewGormConnection(cfg.Database)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		i.DB = db
		i.closers = append(i.closers, sqlDB.Close)

		kv := state.NewGormKV(db)
		if err := kv.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to migrate state table: %w", err)
		}
		repo := historyrepo.NewGormEntryRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to migrate history table: %w", err)
		}
		i.KV = kv
		i.History = repo

	default:
		return fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}

	logger.Logger.Info().Str("backend", cfg.StateBackend).Msg("State backend ready")
	return nil
}

func (i *Infrastructure) connectEvents(cfg *config.Config) error {
	recorder := historycommand.NewRecorder(i.History)

	if len(cfg.KafkaBrokers) == 0 {
		bus := kafka.NewLocalBus()
		for _, eventType := range kafka.AllEventTypes {
			bus.RegisterHandler(eventType, recorder.Handle)
		}
		i.Publisher = bus
		logger.Logger.Info().Msg("Kafka not configured, delivering events in-process")
		return nil
	}

	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		return err
	}
	i.Publisher = publisher
	i.closers = append(i.closers, publisher.Close)

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{kafka.TopicEvents})
	if err != nil {
		return err
	}
	for _, eventType := range kafka.AllEventTypes {
		consumer.RegisterHandler(eventType, recorder.Handle)
	}
	i.Consumer = consumer
	i.closers = append(i.closers, consumer.Close)
	return nil
}

// PingState checks the durable state backend
func (i *Infrastructure) PingState(ctx context.Context) error {
	switch i.KV.(type) {
	case *state.GormKV:
		sqlDB, err := i.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	case *state.RedisKV:
		return i.Redis.Ping(ctx).Err()
	}
	return nil
}

// Close releases connections in reverse order
func (i *Infrastructure) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close connection")
		}
	}
	i.closers = nil
}
