package container

import (
	"context"
	"sync"
	"time"

	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/infrastructure/config"
	"disasterconnect-http-service/internal/infrastructure/database"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"
	"disasterconnect-http-service/internal/infrastructure/storage"

	"gorm.io/gorm"
)

// ServiceContainer wires the services of the application
type ServiceContainer struct {
	db     *gorm.DB
	pool   *database.ConnectionPool
	config *config.Config

	redisService      services.InterfaceRedisService
	sessionService    services.InterfaceSessionService
	classifierService services.InterfaceClassifierService
	images            *storage.FallbackStore
	uploads           *storage.LocalBackend

	userService     services.InterfaceUserService
	adminService    services.InterfaceAdminService
	reportService   services.InterfaceReportService
	donationService services.InterfaceDonationService

	mu sync.RWMutex
}

// Option overrides a dependency before the services are built
type Option func(*ServiceContainer)

// WithClassifier replaces the classifier built from configuration
func WithClassifier(classifier services.InterfaceClassifierService) Option {
	return func(c *ServiceContainer) {
		c.classifierService = classifier
	}
}

// WithImageStore replaces the image backends built from configuration
func WithImageStore(images *storage.FallbackStore) Option {
	return func(c *ServiceContainer) {
		c.images = images
	}
}

// NewServiceContainer creates the service container
func NewServiceContainer(pool *database.ConnectionPool, cfg *config.Config, opts ...Option) *ServiceContainer {
	if pool == nil {
		panic("database connection pool is nil")
	}
	if cfg == nil {
		panic("config is nil")
	}

	container := &ServiceContainer{
		db:     pool.GetDB(),
		pool:   pool,
		config: cfg,
	}
	for _, opt := range opts {
		opt(container)
	}
	container.initializeServices()
	return container
}

// initializeServices builds every service not supplied as an option
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.redisService = services.NewRedisService(c.config)
	if c.redisService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.redisService.Ping(ctx); err != nil {
			Logger.Warning("redis ping failed: %v, classification cache disabled", err)
			c.redisService = nil
		}
	}

	c.sessionService = services.NewSessionService(c.config)
	if c.classifierService == nil {
		c.classifierService = services.NewClassifierService(c.config, c.redisService)
	}
	if c.images == nil {
		c.images = storage.NewFromConfig(c.config)
	}
	c.uploads = storage.NewLocalBackend(c.config.UploadFolder)

	c.userService = services.NewUserService(c.db, c.config)
	c.adminService = services.NewAdminService(c.db, c.config)
	c.reportService = services.NewReportService(c.db, c.config, c.classifierService, c.images)
	c.donationService = services.NewDonationService(c.db, c.config)

	Logger.Info("image backends: %v", c.images.Backends())
}

// GetService returns the service registered under name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "pool":
		return c.pool
	case "redis":
		return c.redisService
	case "session":
		return c.sessionService
	case "classifier":
		return c.classifierService
	case "images":
		return c.images
	case "uploads":
		return c.uploads
	case "user":
		return c.userService
	case "admin":
		return c.adminService
	case "report":
		return c.reportService
	case "donation":
		return c.donationService
	default:
		return nil
	}
}

// GetDB returns the database handle
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig returns the configuration
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}
