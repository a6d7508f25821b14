package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
)

func TestSubscriptionDocument_BSONShape(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := subDomain.NewSubscription("alice", decimal.RequireFromString("9.99"), start)
	require.NoError(t, err)

	raw, err := bson.Marshal(toSubDocument(s))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	_, hasID := m["_id"]
	assert.False(t, hasID, "unsaved documents must let the server generate _id")
	assert.Equal(t, "alice", m["username"])
	assert.Equal(t, 9.99, m["monthly_fee"])
	assert.Contains(t, m, "start_date")
}

func TestSubscriptionDocument_RoundTrip(t *testing.T) {
	id := bson.NewObjectID()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := subDomain.Reconstruct(id, "alice", decimal.RequireFromString("9.99"), start)

	raw, err := bson.Marshal(toSubDocument(s))
	require.NoError(t, err)

	var doc subscriptionDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	back, err := toSubDomain(&doc)
	require.NoError(t, err)
	assert.Equal(t, id, back.ID())
	assert.True(t, s.SameValues(back))
	assert.Equal(t, "9.99", back.MonthlyFee().String())
}

func TestTranslateError(t *testing.T) {
	assert.ErrorIs(t, translateError("find", mongo.ErrNoDocuments), subDomain.ErrSubscriptionNotFound)

	boom := errors.New("socket closed")
	err := translateError("find", boom)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, subDomain.ErrSubscriptionNotFound)
	assert.EqualError(t, err, "find: socket closed")
}

func TestToSubDomain_NonFiniteFee(t *testing.T) {
	for _, fee := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		doc := subscriptionDocument{
			ID:         bson.NewObjectID(),
			Username:   "alice",
			MonthlyFee: fee,
			StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		var (
			s   *subDomain.Subscription
			err error
		)
		require.NotPanics(t, func() { s, err = toSubDomain(&doc) })
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	}
}

func TestMongoSave_RejectsPersistedBeforeInsert(t *testing.T) {
	// A nil collection fails on any driver call, so reaching InsertOne would panic.
	repo := NewMongoSubscriptionRepository(nil)
	s := subDomain.Reconstruct(bson.NewObjectID(), "alice", decimal.NewFromInt(1), time.Now())

	var err error
	require.NotPanics(t, func() { err = repo.Save(context.Background(), s) })
	assert.ErrorIs(t, err, subDomain.ErrIDAlreadyAssigned)
}
