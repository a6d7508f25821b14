package application

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
)

// SubscriptionRequest is the payload accepted by the create, webhook and
// update endpoints. Every field is required.
type SubscriptionRequest struct {
	Username   string    `json:"username" binding:"required"`
	MonthlyFee *Amount   `json:"monthly_fee" binding:"required"`
	StartDate  *DateTime `json:"start_date" binding:"required"`
}

// SubscriptionDTO is the API representation of a stored subscription.
type SubscriptionDTO struct {
	ID         string      `json:"_id"`
	Username   string      `json:"username"`
	MonthlyFee json.Number `json:"monthly_fee"`
	StartDate  DateTime    `json:"start_date"`
}

// CreatedDTO is returned after a subscription is inserted.
type CreatedDTO struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// MessageDTO is returned by update and delete.
type MessageDTO struct {
	Message string `json:"message"`
}

// EventPublisher is notified after a subscription has been written.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, s *subDomain.Subscription) error
}

// SubscriptionService handles subscription use cases.
type SubscriptionService struct {
	repo      subDomain.SubscriptionRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService. publisher may be nil.
func NewSubscriptionService(repo subDomain.SubscriptionRepository, publisher EventPublisher, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, publisher: publisher, logger: logger}
}

// CreateSubscription inserts a new subscription.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*CreatedDTO, error) {
	sub, err := fromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID().Hex()),
		zap.String("username", sub.Username()),
	)
	s.publish(ctx, subDomain.EventCreated, sub)

	return &CreatedDTO{
		Message: fmt.Sprintf("Subscription for %s received and saved!", sub.Username()),
		ID:      sub.ID().Hex(),
	}, nil
}

// GetSubscription returns the subscription with the given id.
func (s *SubscriptionService) GetSubscription(ctx context.Context, rawID string) (*SubscriptionDTO, error) {
	id, err := subDomain.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toSubDTO(sub)
	return &dto, nil
}

// DeleteSubscription removes the subscription with the given id.
func (s *SubscriptionService) DeleteSubscription(ctx context.Context, rawID string) (*MessageDTO, error) {
	id, err := subDomain.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription deleted",
		zap.String("subscription_id", rawID),
		zap.String("username", sub.Username()),
	)
	s.publish(ctx, subDomain.EventDeleted, sub)

	return &MessageDTO{
		Message: fmt.Sprintf("Subscription of %s with the (ID %s) has been deleted.", sub.Username(), rawID),
	}, nil
}

// UpdateSubscription replaces every field of the subscription with the given id.
func (s *SubscriptionService) UpdateSubscription(ctx context.Context, rawID string, req SubscriptionRequest) (*MessageDTO, error) {
	id, err := subDomain.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	values, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	sub := values.WithID(id)

	modified, err := s.repo.Replace(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !modified {
		return &MessageDTO{Message: "No changes made to the subscription."}, nil
	}

	s.logger.Info("subscription updated",
		zap.String("subscription_id", rawID),
		zap.String("username", sub.Username()),
	)
	s.publish(ctx, subDomain.EventUpdated, sub)

	return &MessageDTO{
		Message: fmt.Sprintf("Subscription for %s has been updated.", sub.Username()),
	}, nil
}

// ListSubscriptions returns every stored subscription.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context) ([]SubscriptionDTO, error) {
	subs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		dtos = append(dtos, toSubDTO(sub))
	}
	return dtos, nil
}

// publish never fails the request; the database already holds the change.
func (s *SubscriptionService) publish(ctx context.Context, eventType string, sub *subDomain.Subscription) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, sub); err != nil {
		s.logger.Warn("failed to publish subscription event",
			zap.String("type", eventType),
			zap.String("subscription_id", sub.ID().Hex()),
			zap.Error(err),
		)
	}
}

func fromRequest(req SubscriptionRequest) (*subDomain.Subscription, error) {
	if req.MonthlyFee == nil {
		return nil, subDomain.NewValidationError("monthly_fee", "required", "monthly_fee is required")
	}
	if req.StartDate == nil {
		return nil, subDomain.NewValidationError("start_date", "required", "start_date is required")
	}
	return subDomain.NewSubscription(req.Username, req.MonthlyFee.Decimal, req.StartDate.Time)
}

func toSubDTO(s *subDomain.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:         s.ID().Hex(),
		Username:   s.Username(),
		MonthlyFee: json.Number(s.MonthlyFee().String()),
		StartDate:  DateTime{Time: s.StartDate()},
	}
}
