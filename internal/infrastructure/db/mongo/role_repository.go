package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionRoles = "user_roles"

func roleIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "role", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

func (r *RoleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "role": role}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("role lookup: %w", err)
	}
	return n > 0, nil
}

// Grant assigns role to userID. Granting an existing role is a no-op.
func (r *RoleRepository) Grant(ctx context.Context, userID, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "role": role}
	update := bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}}
	if _, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}
