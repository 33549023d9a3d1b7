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
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

const collectionApplications = "applications"

type applicationDoc struct {
	ID               int64     `bson:"_id"`
	UserID           string    `bson:"user_id"`
	RobloxUsername   string    `bson:"roblox_username"`
	DiscordUsername  *string   `bson:"discord_username"`
	Age              int       `bson:"age"`
	Experience       string    `bson:"experience"`
	WhyJoin          string    `bson:"why_join"`
	Availability     string    `bson:"availability"`
	PreviousMilitary *string   `bson:"previous_military"`
	Status           string    `bson:"status"`
	AdminNotes       *string   `bson:"admin_notes"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func (d applicationDoc) toDomain() *domain.Application {
	return &domain.Application{
		ID:               d.ID,
		UserID:           d.UserID,
		RobloxUsername:   d.RobloxUsername,
		DiscordUsername:  d.DiscordUsername,
		Age:              d.Age,
		Experience:       d.Experience,
		WhyJoin:          d.WhyJoin,
		Availability:     d.Availability,
		PreviousMilitary: d.PreviousMilitary,
		Status:           domain.ApplicationStatus(d.Status),
		AdminNotes:       d.AdminNotes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func applicationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("ux_applications_one_pending").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.StatusPending)}),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}
}

type ApplicationRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{db: db, col: db.Collection(collectionApplications)}
}

// Create inserts a new application document with the next sequence id.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionApplications)
	if err != nil {
		return err
	}

	doc := applicationDoc{
		ID:               id,
		UserID:           app.UserID,
		RobloxUsername:   app.RobloxUsername,
		DiscordUsername:  app.DiscordUsername,
		Age:              app.Age,
		Experience:       app.Experience,
		WhyJoin:          app.WhyJoin,
		Availability:     app.Availability,
		PreviousMilitary: app.PreviousMilitary,
		Status:           string(app.Status),
		AdminNotes:       app.AdminNotes,
		CreatedAt:        app.CreatedAt.UTC(),
		UpdatedAt:        app.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePending
		}
		return fmt.Errorf("insert application: %w", err)
	}
	app.ID = id
	return nil
}

func (r *ApplicationRepository) HasPending(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "status": string(domain.StatusPending)})
	if err != nil {
		return false, fmt.Errorf("count pending applications: %w", err)
	}
	return n > 0, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id int64) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc applicationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns applications matching filter, newest first.
func (r *ApplicationRepository) List(ctx context.Context, filter ports.ApplicationFilter) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	if filter.UserID != "" {
		q["user_id"] = filter.UserID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer cur.Close(ctx)

	var docs []applicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}

	apps := make([]*domain.Application, 0, len(docs))
	for _, d := range docs {
		apps = append(apps, d.toDomain())
	}
	return apps, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes *string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":      string(status),
		"admin_notes": notes,
		"updated_at":  updatedAt.UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePending
		}
		return fmt.Errorf("update application: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode application counts: %w", err)
	}

	counts := make(map[domain.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.ApplicationStatus(row.Status)] = row.N
	}
	return counts, nil
}
