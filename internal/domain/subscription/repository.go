package subscription

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SubscriptionRepository defines persistence operations for subscriptions.
type SubscriptionRepository interface {
	// Save inserts a new subscription and assigns the generated identifier to it.
	Save(ctx context.Context, s *Subscription) error

	// FindByID returns ErrSubscriptionNotFound when no document matches.
	FindByID(ctx context.Context, id bson.ObjectID) (*Subscription, error)

	// FindAll returns every subscription in the store's natural order.
	FindAll(ctx context.Context) ([]*Subscription, error)

	// Replace overwrites all fields of the subscription with s.ID(). It reports
	// whether the stored values changed and returns ErrSubscriptionNotFound
	// when no document matches.
	Replace(ctx context.Context, s *Subscription) (bool, error)

	// Delete removes the subscription atomically and returns what was removed.
	Delete(ctx context.Context, id bson.ObjectID) (*Subscription, error)
}
