// Package leads stores waitlist signups from the public site.
package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cetra-app/cetra/internal/notification"
	"github.com/cetra-app/cetra/internal/validation"
)

// Lead is a captured waitlist email. Leads are never updated.
type Lead struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput is the lead form schema.
type CreateInput struct {
	Email string `json:"email" validate:"required,email"`
}

// Repository persists leads.
type Repository interface {
	Create(ctx context.Context, lead Lead) error
}

// PostgresRepository stores leads in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a lead record.
func (r *PostgresRepository) Create(ctx context.Context, lead Lead) error {
	leadID, err := uuid.Parse(lead.ID)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `INSERT INTO leads (id, email, created_at) VALUES ($1, $2, $3)`,
		leadID, lead.Email, lead.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

type memoryRepository struct {
	mu    sync.Mutex
	leads []Lead
}

// NewMemoryRepository constructs an in-memory repository for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, lead Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.leads {
		if existing.ID == lead.ID {
			return errors.New("lead exists")
		}
	}
	r.leads = append(r.leads, lead)
	return nil
}

// Service captures leads.
type Service struct {
	repo     Repository
	notifier notification.Notifier
}

// NewService builds a lead service. notifier may be nil.
func NewService(repo Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create validates and stores a lead.
func (s *Service) Create(ctx context.Context, in CreateInput) (Lead, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Check(in); err != nil {
		return Lead{}, err
	}

	lead := Lead{ID: uuid.NewString(), Email: in.Email, CreatedAt: time.Now().UTC()}
	if err := s.repo.Create(ctx, lead); err != nil {
		return Lead{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindLeadCaptured,
			Destination: "waitlist",
			Email:       lead.Email,
		})
	}
	return lead, nil
}
