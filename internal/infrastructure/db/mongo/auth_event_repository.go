package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookinghub/booking-system/internal/core/ports"
)

const authEventsCollection = "auth_events"

// AuthEventRepository persists the auth audit trail to MongoDB.
type AuthEventRepository struct {
	db *mongo.Database
}

func NewAuthEventRepository(db *mongo.Database) ports.AuthEventRepository {
	return &AuthEventRepository{db: db}
}

// Insert appends one audit record to the auth_events collection.
func (r *AuthEventRepository) Insert(ctx context.Context, event ports.AuthEventInput) error {
	doc := bson.M{
		"kind":         string(event.Kind),
		"email":        event.Email,
		"occurred_at":  event.OccurredAt.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.SubjectID != "" {
		doc["subject_id"] = event.SubjectID
	}

	if _, err := r.db.Collection(authEventsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
