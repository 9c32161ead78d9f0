package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// SaveRequest upserts a supply request by id.
func (r *MongoDBRepository) SaveRequest(ctx context.Context, req models.SupplyRequest) error {
	_, err := r.db.Collection(requestsCollection).ReplaceOne(ctx,
		bson.M{"_id": req.ID}, req, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save supply request %s: %w", req.ID, err)
	}
	return nil
}

// GetRequest loads one supply request.
func (r *MongoDBRepository) GetRequest(ctx context.Context, id string) (models.SupplyRequest, error) {
	var req models.SupplyRequest
	err := r.db.Collection(requestsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SupplyRequest{}, domain.ErrNotFound
	}
	if err != nil {
		return models.SupplyRequest{}, fmt.Errorf("failed to load supply request %s: %w", id, err)
	}
	return req, nil
}

// ListRequests returns all supply requests, newest first.
func (r *MongoDBRepository) ListRequests(ctx context.Context) ([]models.SupplyRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.db.Collection(requestsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query supply requests: %w", err)
	}

	out := []models.SupplyRequest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode supply requests: %w", err)
	}
	return out, nil
}
