package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

type regimentRow struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	Description    *string   `db:"description"`
	RobloxGroupID  *string   `db:"roblox_group_id"`
	RobloxGroupURL *string   `db:"roblox_group_url"`
	LogoURL        *string   `db:"logo_url"`
	Motto          *string   `db:"motto"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type RegimentRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRegimentRepository(db *sqlx.DB) *RegimentRepository {
	return &RegimentRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *RegimentRepository) List(ctx context.Context) ([]*domain.Regiment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []regimentRow
	err := r.db.SelectContext(ctx, &rows, `SELECT id, name, description, roblox_group_id, roblox_group_url,
		logo_url, motto, created_at, updated_at FROM regiments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list regiments: %w", err)
	}

	regiments := make([]*domain.Regiment, 0, len(rows))
	for _, row := range rows {
		regiments = append(regiments, &domain.Regiment{
			ID:             row.ID,
			Name:           row.Name,
			Description:    row.Description,
			RobloxGroupID:  row.RobloxGroupID,
			RobloxGroupURL: row.RobloxGroupURL,
			LogoURL:        row.LogoURL,
			Motto:          row.Motto,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
		})
	}
	return regiments, nil
}

// Upsert inserts reg or refreshes the descriptive fields of the regiment with
// the same name.
func (r *RegimentRepository) Upsert(ctx context.Context, reg *domain.Regiment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now()
	query := r.db.Rebind(`INSERT INTO regiments
		(name, description, roblox_group_id, roblox_group_url, logo_url, motto, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			description = excluded.description,
			roblox_group_id = excluded.roblox_group_id,
			roblox_group_url = excluded.roblox_group_url,
			logo_url = excluded.logo_url,
			motto = excluded.motto,
			updated_at = excluded.updated_at
		RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query,
		reg.Name, reg.Description, reg.RobloxGroupID, reg.RobloxGroupURL, reg.LogoURL, reg.Motto, now, now,
	).Scan(&reg.ID)
	if err != nil {
		return fmt.Errorf("upsert regiment %q: %w", reg.Name, err)
	}
	return nil
}
