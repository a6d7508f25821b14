package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
)

// ErrInvalidDocument is returned when a stored document cannot be turned
// into a subscription.
var ErrInvalidDocument = errors.New("invalid subscription document")

// subscriptionDocument is the BSON shape of a document in the subscriptions
// collection. The fee is stored as a double so documents written by earlier
// clients of the collection decode unchanged.
type subscriptionDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Username   string        `bson:"username"`
	MonthlyFee float64       `bson:"monthly_fee"`
	StartDate  time.Time     `bson:"start_date"`
}

// MongoSubscriptionRepository implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepository struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new MongoSubscriptionRepository.
func NewMongoSubscriptionRepository(coll *mongo.Collection) *MongoSubscriptionRepository {
	return &MongoSubscriptionRepository{coll: coll}
}

// Save inserts a new subscription document.
func (r *MongoSubscriptionRepository) Save(ctx context.Context, s *subDomain.Subscription) error {
	if !s.ID().IsZero() {
		return subDomain.ErrIDAlreadyAssigned
	}

	res, err := r.coll.InsertOne(ctx, toSubDocument(s))
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("insert subscription: unexpected id type %T", res.InsertedID)
	}
	return s.AssignID(id)
}

// FindByID returns a subscription by ID.
func (r *MongoSubscriptionRepository) FindByID(ctx context.Context, id bson.ObjectID) (*subDomain.Subscription, error) {
	var doc subscriptionDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		return nil, translateError("find subscription", err)
	}
	return toSubDomain(&doc)
}

// FindAll returns every subscription document.
func (r *MongoSubscriptionRepository) FindAll(ctx context.Context) ([]*subDomain.Subscription, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	var docs []subscriptionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}

	subs := make([]*subDomain.Subscription, 0, len(docs))
	for i := range docs {
		sub, err := toSubDomain(&docs[i])
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Replace sets all fields of the matching document.
func (r *MongoSubscriptionRepository) Replace(ctx context.Context, s *subDomain.Subscription) (bool, error) {
	doc := toSubDocument(s)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "username", Value: doc.Username},
		{Key: "monthly_fee", Value: doc.MonthlyFee},
		{Key: "start_date", Value: doc.StartDate},
	}}}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: s.ID()}}, update)
	if err != nil {
		return false, fmt.Errorf("update subscription: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, subDomain.ErrSubscriptionNotFound
	}
	return res.ModifiedCount > 0, nil
}

// Delete removes the document and returns its last state.
func (r *MongoSubscriptionRepository) Delete(ctx context.Context, id bson.ObjectID) (*subDomain.Subscription, error) {
	var doc subscriptionDocument
	err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		return nil, translateError("delete subscription", err)
	}
	return toSubDomain(&doc)
}

func translateError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return subDomain.ErrSubscriptionNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toSubDocument(s *subDomain.Subscription) subscriptionDocument {
	return subscriptionDocument{
		ID:         s.ID(),
		Username:   s.Username(),
		MonthlyFee: s.MonthlyFee().InexactFloat64(),
		StartDate:  s.StartDate(),
	}
}

func toSubDomain(d *subscriptionDocument) (*subDomain.Subscription, error) {
	if math.IsNaN(d.MonthlyFee) || math.IsInf(d.MonthlyFee, 0) {
		return nil, fmt.Errorf("%w %s: monthly_fee %v is not a finite number", ErrInvalidDocument, d.ID.Hex(), d.MonthlyFee)
	}
	return subDomain.Reconstruct(d.ID, d.Username, decimal.NewFromFloat(d.MonthlyFee), d.StartDate), nil
}
