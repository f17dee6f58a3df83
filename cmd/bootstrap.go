package cmd

import (
	"context"
	"time"

	"appointly/app"
	"appointly/config"
	"appointly/database"
	"appointly/database/repository"
	"appointly/database/repository/memory"
	"appointly/services/events"
	"appointly/utils"

	"go.uber.org/zap"
)

// runtime is the set of live connections behind one command invocation.
type runtime struct {
	app       *app.App
	logger    *zap.Logger
	publisher events.Publisher
	mongo     bool
}

// bootstrap connects the stores and builds the services. With inMemory set
// no MongoDB connection is made and data lives for the process only.
func bootstrap(inMemory bool, withCache bool) (*runtime, error) {
	logger := utils.GetLogger()

	var store *repository.Store
	if inMemory {
		logger.Warn("Using in-memory store; data is not persisted")
		store = memory.NewStore()
	} else {
		if err := database.InitDB(); err != nil {
			return nil, err
		}
		store = repository.NewMongoStore(database.MongoClient, database.DB())
	}

	var roles utils.RoleCache
	if withCache {
		utils.InitRedis()
		roles = &utils.RedisRoleCache{Client: utils.GetAuthCacheClient()}
	}

	publisher := events.NewKafkaPublisher(config.KafkaBrokerList(), config.AppConfig.KafkaTopic, logger.Named("events"))
	a := app.New(store, app.Options{
		Logger:            logger,
		Location:          config.Location(),
		ApprovalGrace:     config.AppConfig.ApprovalGrace,
		TokenTTL:          config.AppConfig.TokenTTL,
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
		RoleCache:         roles,
		Events:            publisher,
		MongoEnabled:      !inMemory,
	})
	return &runtime{app: a, logger: logger, publisher: publisher, mongo: !inMemory}, nil
}

func (r *runtime) close() {
	if err := r.publisher.Close(); err != nil {
		r.logger.Warn("Failed to close event publisher", zap.Error(err))
	}
	if r.mongo {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Disconnect(ctx); err != nil {
			r.logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}
	_ = r.logger.Sync()
}
