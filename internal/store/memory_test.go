package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"roadtour/internal/model"
)

func TestMemoryResults(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first := model.ResultRecord{ID: uuid.NewString(), SessionID: "s1", Algorithm: "brute_force", Route: []int{0, 1, 0}, Distance: 20, Optimal: true, CreatedAt: time.Now()}
	second := model.ResultRecord{ID: uuid.NewString(), SessionID: "s1", Algorithm: "nn_2opt", Route: []int{0, 1, 0}, Distance: 20, CreatedAt: time.Now()}
	for _, r := range []model.ResultRecord{first, second} {
		if err := m.SaveResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.GetResult(ctx, first.ID)
	if err != nil || !got.Optimal {
		t.Fatalf("GetResult: %+v, %v", got, err)
	}
	if _, err := m.GetResult(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: %v", err)
	}

	all, err := m.ListResults(ctx, "s1", "", 10)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListResults: %v, %v", all, err)
	}
	// Newest first.
	if all[0].ID != second.ID {
		t.Fatalf("order: %v", all)
	}
	only, _ := m.ListResults(ctx, "s1", "brute_force", 10)
	if len(only) != 1 || only[0].ID != first.ID {
		t.Fatalf("filtered: %v", only)
	}
	none, _ := m.ListResults(ctx, "other", "", 10)
	if len(none) != 0 {
		t.Fatalf("foreign session: %v", none)
	}
}

func TestMemorySubscriptions(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	s, err := m.CreateSubscription(ctx, model.SubscriptionRequest{URL: "http://example.com/hook", Events: []string{"solve.completed"}, Secret: "sh"})
	if err != nil || s.ID == "" {
		t.Fatalf("CreateSubscription: %+v, %v", s, err)
	}
	hit, err := m.GetSubscriptionsForEvent(ctx, "solve.completed")
	if err != nil || len(hit) != 1 {
		t.Fatalf("GetSubscriptionsForEvent: %v, %v", hit, err)
	}
	miss, _ := m.GetSubscriptionsForEvent(ctx, "network.loaded")
	if len(miss) != 0 {
		t.Fatalf("unexpected match: %v", miss)
	}
	if err := m.DeleteSubscription(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteSubscription(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestMemoryWebhookQueue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.EnqueueWebhook(ctx, "sub1", "solve.completed", "http://example.com/hook", "sh", []byte(`{"x":1}`))
	if err != nil {
		t.Fatal(err)
	}
	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil || len(due) != 1 || due[0].ID != id {
		t.Fatalf("due: %v, %v", due, err)
	}

	// Failed attempt scheduled for later is not due.
	next := time.Now().Add(time.Hour)
	if err := m.MarkWebhookDelivery(ctx, id, false, &next, "boom", 500, 12); err != nil {
		t.Fatal(err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("retry fetched early: %v", due)
	}

	if err := m.FailWebhookDelivery(ctx, id, "gave up", 500, 12); err != nil {
		t.Fatal(err)
	}
	if st := m.DeliveryStatuses()[id]; st != "failed" {
		t.Fatalf("status = %s", st)
	}
}
