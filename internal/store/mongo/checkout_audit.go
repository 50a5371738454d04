package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Checkout outcomes stored in CheckoutAudit.Outcome.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// CheckoutAudit records one checkout attempt, successful or not.
type CheckoutAudit struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Outcome     string             `bson:"outcome" json:"outcome"`
	OrderID     int64              `bson:"order_id,omitempty" json:"order_id,omitempty"`
	WeekNumber  int32              `bson:"week_number,omitempty" json:"week_number,omitempty"`
	Lines       []AuditLine        `bson:"lines" json:"lines"`
	Total       string             `bson:"total,omitempty" json:"total,omitempty"`
	Error       string             `bson:"error,omitempty" json:"error,omitempty"`
	Ingredients []string           `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}

type AuditLine struct {
	Type  string `bson:"type" json:"type"`
	ID    int32  `bson:"id" json:"id"`
	Count int32  `bson:"count" json:"count"`
}

type CheckoutAuditRepository struct {
	collection *mongo.Collection
}

func NewCheckoutAuditRepository(db *mongo.Database) *CheckoutAuditRepository {
	return &CheckoutAuditRepository{
		collection: db.Collection(collectionCheckoutAudit),
	}
}

func (r *CheckoutAuditRepository) Create(ctx context.Context, audit *CheckoutAudit) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if audit.ID.IsZero() {
		audit.ID = primitive.NewObjectID()
	}
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, audit)
	if err != nil {
		return fmt.Errorf("failed to create checkout audit: %w", err)
	}

	return nil
}

// ListRecent returns the newest audits first. An empty outcome matches both.
func (r *CheckoutAuditRepository) ListRecent(ctx context.Context, outcome string, limit int) ([]CheckoutAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if outcome != "" {
		filter["outcome"] = outcome
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkout audits: %w", err)
	}
	defer cursor.Close(ctx)

	audits := []CheckoutAudit{}
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, fmt.Errorf("failed to decode checkout audits: %w", err)
	}

	return audits, nil
}
