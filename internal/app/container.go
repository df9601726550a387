package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/api"
	"github.com/saarzint/bolgenie/internal/config"
	"github.com/saarzint/bolgenie/internal/infrastructure/auth"
	"github.com/saarzint/bolgenie/internal/infrastructure/storage"
	"github.com/saarzint/bolgenie/internal/services"
	"github.com/saarzint/bolgenie/internal/transport"
)

// stateStore is what the configured storage backend must provide: credential
// persistence plus the plan selection.
type stateStore interface {
	domain.TokenStore
	domain.PlanStore
}

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	RedisClient *redis.Client
	Store       stateStore
	Events      *domain.SessionBroadcaster

	// Request pipeline
	AuthAPI  domain.AuthAPI
	Pipeline *transport.Client

	// Endpoint clients
	Shipments *api.ShipmentsClient
	OCR       *api.OCRClient
	PDF       *api.PDFClient
	Admin     *api.AdminClient

	// Services
	Session domain.SessionService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Events: domain.NewSessionBroadcaster(),
	}

	if err := container.initStore(); err != nil {
		return nil, err
	}
	container.initPipeline()
	container.initServices()

	return container, nil
}

func (c *Container) initStore() error {
	switch c.Config.StoreBackend {
	case "redis":
		c.RedisClient = redis.NewClient(&redis.Options{
			Addr:     c.Config.RedisAddr,
			Password: c.Config.RedisPassword,
			DB:       c.Config.RedisDB,
		})
		if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.Store = storage.NewRedisStore(c.RedisClient)
		return nil
	case "file", "":
		store, err := storage.NewFileStore(c.Config.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		c.Store = store
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", c.Config.StoreBackend)
	}
}

func (c *Container) initPipeline() {
	authClient := api.NewAuthClient(c.Config.BaseURL, c.Config.Timeout)
	c.AuthAPI = authClient

	c.Pipeline = transport.New(transport.Options{
		BaseURL:    c.Config.BaseURL,
		Timeout:    c.Config.Timeout,
		TokenStore: c.Store,
		Refresher:  authClient,
		Events:     c.Events,
	})

	c.Shipments = api.NewShipmentsClient(c.Pipeline)
	c.OCR = api.NewOCRClient(c.Pipeline)
	c.PDF = api.NewPDFClient(c.Pipeline)
	c.Admin = api.NewAdminClient(c.Pipeline)
}

func (c *Container) initServices() {
	c.Session = services.NewSessionService(c.AuthAPI, c.Store, c.Store, c.Events, services.SessionOptions{
		AdminEmails: c.Config.AdminEmails,
		TokenExpired: func(token string) bool {
			return auth.IsExpired(token, 30*time.Second)
		},
	})
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}
	return nil
}
