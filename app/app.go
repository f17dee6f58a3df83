// Package app wires repositories, services and handlers into a runnable
// gin engine.
package app

import (
	"time"

	"appointly/database/repository"
	"appointly/handlers"
	"appointly/middleware"
	"appointly/routes"
	"appointly/services/events"
	"appointly/services/notification"
	"appointly/services/provider"
	"appointly/services/scheduling"
	"appointly/services/user"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options carries the runtime settings that shape the services.
type Options struct {
	Logger            *zap.Logger
	Location          *time.Location
	ApprovalGrace     time.Duration
	TokenTTL          time.Duration
	MaxRequestsPerMin int
	RoleCache         utils.RoleCache
	Events            events.Publisher
	MongoEnabled      bool
	Now               func() time.Time
}

// App holds the assembled services.
type App struct {
	Store         *repository.Store
	Users         *user.DefaultUserService
	Providers     *provider.DefaultProviderService
	Notifications *notification.DefaultNotificationService
	Scheduling    *scheduling.DefaultSchedulingService
	Escalator     *scheduling.Escalator

	opts Options
}

// New builds every service on top of store.
func New(store *repository.Store, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Events == nil {
		opts.Events = events.NopPublisher{}
	}

	notes := &notification.DefaultNotificationService{
		Repo:   store.Notifications,
		Users:  store.Users,
		Logger: opts.Logger.Named("notification"),
		Now:    opts.Now,
	}
	sched := &scheduling.DefaultSchedulingService{
		Appointments:  store.Appointments,
		Providers:     store.Providers,
		Users:         store.Users,
		Tx:            store.Tx,
		Notifier:      notes,
		Events:        opts.Events,
		Logger:        opts.Logger.Named("scheduling"),
		Location:      opts.Location,
		ApprovalGrace: opts.ApprovalGrace,
		Now:           opts.Now,
	}
	return &App{
		Store: store,
		Users: &user.DefaultUserService{
			Repo:      store.Users,
			TokenTTL:  opts.TokenTTL,
			Logger:    opts.Logger.Named("user"),
			RoleCache: opts.RoleCache,
		},
		Providers: &provider.DefaultProviderService{
			Repo:         store.Providers,
			Appointments: store.Appointments,
			Logger:       opts.Logger.Named("provider"),
			Now:          opts.Now,
		},
		Notifications: notes,
		Scheduling:    sched,
		Escalator:     scheduling.NewEscalator(sched),
		opts:          opts,
	}
}

// Bundle assembles the HTTP handlers.
func (a *App) Bundle() *handlers.HandlerBundle {
	return &handlers.HandlerBundle{
		UserRepo:          a.Store.Users,
		RoleCache:         a.Users.RoleCache,
		MaxRequestsPerMin: a.opts.MaxRequestsPerMin,
		Auth:              handlers.NewAuthHandler(a.Users),
		Appointments:      handlers.NewAppointmentHandler(a.Scheduling),
		Providers:         handlers.NewProviderHandler(a.Providers, a.Scheduling),
		Notifications:     handlers.NewNotificationHandler(a.Notifications),
		Health:            &handlers.HealthHandler{MongoEnabled: a.opts.MongoEnabled},
	}
}

// Router returns a gin engine with the global middleware and every route.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(a.opts.Logger))
	routes.RegisterRoutes(router, a.Bundle())
	return router
}
