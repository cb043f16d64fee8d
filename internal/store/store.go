package store

import (
	"context"
	"errors"
	"time"

	"roadtour/internal/model"
)

// Store is the persistence interface used by the API server.
type Store interface {
	// Solve results
	SaveResult(ctx context.Context, rec model.ResultRecord) error
	GetResult(ctx context.Context, id string) (model.ResultRecord, error)
	ListResults(ctx context.Context, sessionID, algorithm string, limit int) ([]model.ResultRecord, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, eventType string) ([]model.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error

	// Webhook deliveries
	EnqueueWebhook(ctx context.Context, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error
}

var ErrNotFound = errors.New("not found")
