package subscription

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Subscription is the aggregate root for a subscriber's monthly plan.
type Subscription struct {
	id         bson.ObjectID
	username   string
	monthlyFee decimal.Decimal
	startDate  time.Time
}

// NewSubscription validates the given values and returns a subscription
// that has not been persisted yet.
func NewSubscription(username string, monthlyFee decimal.Decimal, startDate time.Time) (*Subscription, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(username) == "" {
		verr.Add("username", "required", "username must not be empty")
	}
	if monthlyFee.IsNegative() {
		verr.Add("monthly_fee", "gte", "monthly_fee must not be negative")
	} else if !FiniteFee(monthlyFee) {
		verr.Add("monthly_fee", "max", "monthly_fee is too large")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	return &Subscription{
		username:   username,
		monthlyFee: monthlyFee,
		startDate:  NormalizeTime(startDate),
	}, nil
}

// Reconstruct rebuilds a Subscription from persistence.
func Reconstruct(id bson.ObjectID, username string, monthlyFee decimal.Decimal, startDate time.Time) *Subscription {
	return &Subscription{
		id:         id,
		username:   username,
		monthlyFee: monthlyFee,
		startDate:  NormalizeTime(startDate),
	}
}

// AssignID sets the identifier generated by the store. An identifier can
// only be assigned once.
func (s *Subscription) AssignID(id bson.ObjectID) error {
	if !s.id.IsZero() {
		return ErrIDAlreadyAssigned
	}
	s.id = id
	return nil
}

// WithID returns a copy of s carrying id, used when replacing the fields of
// an existing document.
func (s *Subscription) WithID(id bson.ObjectID) *Subscription {
	c := *s
	c.id = id
	return &c
}

// SameValues reports whether both subscriptions hold identical field values,
// ignoring the identifier.
func (s *Subscription) SameValues(o *Subscription) bool {
	return s.username == o.username &&
		s.monthlyFee.Equal(o.monthlyFee) &&
		s.startDate.Equal(o.startDate)
}

// FiniteFee reports whether fee fits a finite float64, the storage type of
// the fee.
func FiniteFee(fee decimal.Decimal) bool {
	f, _ := fee.Float64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// NormalizeTime converts t to UTC at millisecond precision, which is what a
// BSON datetime can hold.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Getters.
func (s *Subscription) ID() bson.ObjectID           { return s.id }
func (s *Subscription) Username() string            { return s.username }
func (s *Subscription) MonthlyFee() decimal.Decimal { return s.monthlyFee }
func (s *Subscription) StartDate() time.Time        { return s.startDate }
