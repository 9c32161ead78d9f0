package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// inventoryDocument wraps a unit's state keyed by its user id.
type inventoryDocument struct {
	UserID    string                 `bson:"_id"`
	State     *models.InventoryState `bson:"state"`
	UpdatedAt time.Time              `bson:"updated_at"`
}

// SaveInventory upserts the unit document. Last write wins.
func (r *MongoDBRepository) SaveInventory(ctx context.Context, userID string, state *models.InventoryState) error {
	doc := inventoryDocument{UserID: userID, State: state, UpdatedAt: time.Now().UTC()}
	_, err := r.db.Collection(inventoriesCollection).ReplaceOne(ctx,
		bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert inventory %s: %w", userID, err)
	}
	return nil
}

// ListInventories returns every stored unit document keyed by user id.
func (r *MongoDBRepository) ListInventories(ctx context.Context) (map[string]*models.InventoryState, error) {
	cur, err := r.db.Collection(inventoriesCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query inventories: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[string]*models.InventoryState)
	for cur.Next(ctx) {
		var doc inventoryDocument
		if err := cur.Decode(&doc); err != nil {
			r.logger.Warn("skip undecodable inventory", zap.Error(err))
			continue
		}
		if doc.State == nil {
			continue
		}
		doc.State.Normalize()
		out[doc.UserID] = doc.State
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventories: %w", err)
	}
	return out, nil
}

// WatchInventories blocks on a change stream over the inventories collection and
// calls onChange for every event until ctx is done. Change streams need a
// replica set; on a standalone server the error is returned immediately.
func (r *MongoDBRepository) WatchInventories(ctx context.Context, onChange func(ctx context.Context)) error {
	stream, err := r.db.Collection(inventoriesCollection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return fmt.Errorf("failed to open inventories change stream: %w", err)
	}
	defer stream.Close(context.Background())

	r.logger.Info("watching inventories change stream")
	for stream.Next(ctx) {
		onChange(ctx)
	}
	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("inventories change stream: %w", err)
	}
	return nil
}
