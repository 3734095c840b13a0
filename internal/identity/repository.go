package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	// IncrementTrialRuns atomically bumps the trial counter while it is below
	// limit and returns the new value, or ErrTrialExhausted.
	IncrementTrialRuns(ctx context.Context, id string, limit int) (int, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, plan, credits, referrals, language, free_trial_runs, created_at`

// Create inserts a new user. A duplicate email surfaces as ErrEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		userID, user.Email, user.PasswordHash, user.Plan, user.Credits, user.Referrals,
		user.Language, user.FreeTrialRuns, user.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail fetches a user by normalized email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

// IncrementTrialRuns performs the compare-and-increment in a single statement
// so concurrent requests cannot overshoot the limit.
func (r *PostgresRepository) IncrementTrialRuns(ctx context.Context, id string, limit int) (int, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrUserNotFound
	}
	var runs int
	err = r.db.QueryRow(ctx, `UPDATE users SET free_trial_runs = free_trial_runs + 1
        WHERE id = $1 AND free_trial_runs < $2
        RETURNING free_trial_runs`, userID, limit).Scan(&runs)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrTrialExhausted
	}
	if err != nil {
		return 0, fmt.Errorf("increment trial runs: %w", err)
	}
	return runs, nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id   uuid.UUID
		user User
	)
	err := row.Scan(&id, &user.Email, &user.PasswordHash, &user.Plan, &user.Credits,
		&user.Referrals, &user.Language, &user.FreeTrialRuns, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	user.ID = id.String()
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}
