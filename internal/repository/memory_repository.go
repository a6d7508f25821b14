package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
)

// MemorySubscriptionRepository keeps subscriptions in process memory. It
// backs STORAGE_DRIVER=memory and the handler tests.
type MemorySubscriptionRepository struct {
	mu    sync.RWMutex
	items map[bson.ObjectID]*subDomain.Subscription
	order []bson.ObjectID
}

// NewMemorySubscriptionRepository creates an empty MemorySubscriptionRepository.
func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{items: make(map[bson.ObjectID]*subDomain.Subscription)}
}

// Save stores s under a freshly generated ObjectID.
func (r *MemorySubscriptionRepository) Save(ctx context.Context, s *subDomain.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := bson.NewObjectID()
	if err := s.AssignID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = s.WithID(id)
	r.order = append(r.order, id)
	return nil
}

// FindByID returns a copy of the stored subscription.
func (r *MemorySubscriptionRepository) FindByID(ctx context.Context, id bson.ObjectID) (*subDomain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return nil, subDomain.ErrSubscriptionNotFound
	}
	return s.WithID(id), nil
}

// FindAll returns subscriptions in insertion order.
func (r *MemorySubscriptionRepository) FindAll(ctx context.Context) ([]*subDomain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := make([]*subDomain.Subscription, 0, len(r.order))
	for _, id := range r.order {
		subs = append(subs, r.items[id].WithID(id))
	}
	return subs, nil
}

// Replace overwrites the stored values of s.ID().
func (r *MemorySubscriptionRepository) Replace(ctx context.Context, s *subDomain.Subscription) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[s.ID()]
	if !ok {
		return false, subDomain.ErrSubscriptionNotFound
	}
	if current.SameValues(s) {
		return false, nil
	}
	r.items[s.ID()] = s.WithID(s.ID())
	return true, nil
}

// Delete removes the subscription and returns it.
func (r *MemorySubscriptionRepository) Delete(ctx context.Context, id bson.ObjectID) (*subDomain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return nil, subDomain.ErrSubscriptionNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return s, nil
}
