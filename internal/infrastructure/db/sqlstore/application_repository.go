package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

const applicationColumns = `id, user_id, roblox_username, discord_username, age, experience, why_join,
	availability, previous_military, status, admin_notes, created_at, updated_at`

type applicationRow struct {
	ID               int64     `db:"id"`
	UserID           string    `db:"user_id"`
	RobloxUsername   string    `db:"roblox_username"`
	DiscordUsername  *string   `db:"discord_username"`
	Age              int       `db:"age"`
	Experience       string    `db:"experience"`
	WhyJoin          string    `db:"why_join"`
	Availability     string    `db:"availability"`
	PreviousMilitary *string   `db:"previous_military"`
	Status           string    `db:"status"`
	AdminNotes       *string   `db:"admin_notes"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r applicationRow) toDomain() *domain.Application {
	return &domain.Application{
		ID:               r.ID,
		UserID:           r.UserID,
		RobloxUsername:   r.RobloxUsername,
		DiscordUsername:  r.DiscordUsername,
		Age:              r.Age,
		Experience:       r.Experience,
		WhyJoin:          r.WhyJoin,
		Availability:     r.Availability,
		PreviousMilitary: r.PreviousMilitary,
		Status:           domain.ApplicationStatus(r.Status),
		AdminNotes:       r.AdminNotes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

type ApplicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts app and sets its generated id. A second pending application
// for the same user violates ux_applications_one_pending.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := r.db.Rebind(`INSERT INTO applications
		(user_id, roblox_username, discord_username, age, experience, why_join,
		 availability, previous_military, status, admin_notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query,
		app.UserID, app.RobloxUsername, app.DiscordUsername, app.Age, app.Experience, app.WhyJoin,
		app.Availability, app.PreviousMilitary, string(app.Status), app.AdminNotes, app.CreatedAt, app.UpdatedAt,
	).Scan(&app.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePending
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) HasPending(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM applications WHERE user_id = ? AND status = ?`)
	if err := r.db.GetContext(ctx, &n, query, userID, string(domain.StatusPending)); err != nil {
		return false, fmt.Errorf("count pending applications: %w", err)
	}
	return n > 0, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id int64) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row applicationRow
	query := r.db.Rebind(`SELECT ` + applicationColumns + ` FROM applications WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return row.toDomain(), nil
}

// List returns applications matching filter, newest first.
func (r *ApplicationRepository) List(ctx context.Context, filter ports.ApplicationFilter) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := sq.Select(applicationColumns).From("applications")
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.UserID != "" {
		q = q.Where(sq.Eq{"user_id": filter.UserID})
	}
	query, args, err := q.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	var rows []applicationRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]*domain.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toDomain())
	}
	return apps, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes *string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := r.db.Rebind(`UPDATE applications SET status = ?, admin_notes = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, string(status), notes, updatedAt, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePending
		}
		return fmt.Errorf("update application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if n == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []struct {
		Status string `db:"status"`
		N      int64  `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS n FROM applications GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	counts := make(map[domain.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.ApplicationStatus(row.Status)] = row.N
	}
	return counts, nil
}
