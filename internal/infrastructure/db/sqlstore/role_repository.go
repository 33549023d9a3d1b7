package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type RoleRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM user_roles WHERE user_id = ? AND role = ?`)
	if err := r.db.GetContext(ctx, &n, query, userID, role); err != nil {
		return false, fmt.Errorf("role lookup: %w", err)
	}
	return n > 0, nil
}

// Grant assigns role to userID. Granting an existing role is a no-op.
func (r *RoleRepository) Grant(ctx context.Context, userID, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := r.db.Rebind(`INSERT INTO user_roles (user_id, role, created_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, role) DO NOTHING`)
	if _, err := r.db.ExecContext(ctx, query, userID, role, time.Now().UTC()); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}
