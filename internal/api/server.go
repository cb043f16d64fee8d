// Package api implements the HTTP surface of the road tour service.
package api

import (
	"context"
	"strings"

	"roadtour/internal/config"
	"roadtour/internal/session"
	"roadtour/internal/store"
	"roadtour/internal/webhooks"
)

type Server struct {
	Store    store.Store
	Sessions *session.Manager
	Pub      *webhooks.Publisher
	Broker   EventBroker
	Config   config.Config
}

// NewServer creates a Server. Without a database URL it uses the in-memory
// store; without a Redis URL it uses the in-process broker.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := sp.Migrate(context.Background()); err != nil {
			return nil, err
		}
		s = sp
	}
	var broker EventBroker
	if cfg.RedisURL != "" {
		rb, err := NewRedisBroker(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		broker = rb
	} else {
		broker = NewBroker()
	}
	return &Server{
		Store:    s,
		Sessions: session.NewManager(),
		Pub:      webhooks.NewPublisher(s),
		Broker:   broker,
		Config:   cfg,
	}, nil
}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store, s.Config.Webhooks.MaxAttempts)
}
