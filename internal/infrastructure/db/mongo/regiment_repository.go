package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

const collectionRegiments = "regiments"

type regimentDoc struct {
	ID             int64     `bson:"_id"`
	Name           string    `bson:"name"`
	Description    *string   `bson:"description"`
	RobloxGroupID  *string   `bson:"roblox_group_id"`
	RobloxGroupURL *string   `bson:"roblox_group_url"`
	LogoURL        *string   `bson:"logo_url"`
	Motto          *string   `bson:"motto"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func regimentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

type RegimentRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewRegimentRepository(db *mongo.Database) *RegimentRepository {
	return &RegimentRepository{db: db, col: db.Collection(collectionRegiments)}
}

func (r *RegimentRepository) List(ctx context.Context) ([]*domain.Regiment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list regiments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []regimentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode regiments: %w", err)
	}

	regiments := make([]*domain.Regiment, 0, len(docs))
	for _, d := range docs {
		regiments = append(regiments, &domain.Regiment{
			ID:             d.ID,
			Name:           d.Name,
			Description:    d.Description,
			RobloxGroupID:  d.RobloxGroupID,
			RobloxGroupURL: d.RobloxGroupURL,
			LogoURL:        d.LogoURL,
			Motto:          d.Motto,
			CreatedAt:      d.CreatedAt,
			UpdatedAt:      d.UpdatedAt,
		})
	}
	return regiments, nil
}

// Upsert inserts reg or refreshes the descriptive fields of the regiment with
// the same name. Existing regiments keep their id and created_at.
func (r *RegimentRepository) Upsert(ctx context.Context, reg *domain.Regiment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var existing regimentDoc
	err := r.col.FindOne(ctx, bson.M{"name": reg.Name}).Decode(&existing)
	switch {
	case err == nil:
		reg.ID = existing.ID
	case errors.Is(err, mongo.ErrNoDocuments):
		if reg.ID, err = nextID(ctx, r.db, collectionRegiments); err != nil {
			return err
		}
	default:
		return fmt.Errorf("find regiment %q: %w", reg.Name, err)
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":             reg.Name,
			"description":      reg.Description,
			"roblox_group_id":  reg.RobloxGroupID,
			"roblox_group_url": reg.RobloxGroupURL,
			"logo_url":         reg.LogoURL,
			"motto":            reg.Motto,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": reg.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert regiment %q: %w", reg.Name, err)
	}
	return nil
}
