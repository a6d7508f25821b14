package subscription

import "time"

// Event types published when a subscription changes.
const (
	EventCreated = "subscription.created"
	EventUpdated = "subscription.updated"
	EventDeleted = "subscription.deleted"
)

// ChangedEvent is the payload published for every subscription change.
type ChangedEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	Username       string    `json:"username"`
	MonthlyFee     string    `json:"monthly_fee"`
	StartDate      time.Time `json:"start_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewChangedEvent builds the event payload for s.
func NewChangedEvent(s *Subscription, occurredAt time.Time) ChangedEvent {
	return ChangedEvent{
		SubscriptionID: s.ID().Hex(),
		Username:       s.Username(),
		MonthlyFee:     s.MonthlyFee().String(),
		StartDate:      s.StartDate(),
		OccurredAt:     occurredAt.UTC(),
	}
}
