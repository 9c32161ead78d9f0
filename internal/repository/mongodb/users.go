package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// ListUsers returns every stored account.
func (r *MongoDBRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := r.db.Collection(usersCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// SaveUser upserts an account by id.
func (r *MongoDBRepository) SaveUser(ctx context.Context, user models.User) error {
	_, err := r.db.Collection(usersCollection).ReplaceOne(ctx,
		bson.M{"_id": user.ID}, user, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.Username, err)
	}
	return nil
}
