package identity

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cetra-app/cetra/internal/notification"
	"github.com/cetra-app/cetra/internal/validation"
)

const (
	// FreeTrialRuns is the number of builder runs granted to free-plan accounts.
	FreeTrialRuns = 3
	// DefaultHashCost is the bcrypt cost used for stored passwords.
	DefaultHashCost = 12
	defaultLanguage = "en"
)

var (
	// ErrEmailTaken is returned when signing up with an already registered email.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when a user id or email has no row.
	ErrUserNotFound = errors.New("user not found")
	// ErrTrialExhausted is returned once a free account has used every trial run.
	ErrTrialExhausted = errors.New("free trial runs exhausted")
)

// Service manages account lifecycle.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// Option customizes a Service.
type Option func(*Service)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// WithNotifier attaches a notifier for signup events.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a new identity service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, hashCost: DefaultHashCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail trims and lower-cases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup validates input, rejects duplicate emails and stores a new free-plan user.
func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Check(in); err != nil {
		return User{}, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword(passwordKey(in.Password), s.hashCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Plan:         PlanFree,
		Language:     defaultLanguage,
		CreatedAt:    time.Now().UTC(),
	}

	// The unique index still guards the race between lookup and insert.
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindSignup,
			Destination: user.ID,
			Email:       user.Email,
		})
	}

	return user, nil
}

// Login verifies credentials. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials after comparable bcrypt work.
func (s *Service) Login(ctx context.Context, in LoginInput) (User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Check(in); err != nil {
		return User{}, err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if errors.Is(err, ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), passwordKey(in.Password))
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordKey(in.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// ConsumeTrialRun meters one builder run for the user. Paid plans are never
// metered; free plans get FreeTrialRuns in total.
func (s *Service) ConsumeTrialRun(ctx context.Context, id string) (TrialResult, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TrialResult{}, err
	}
	if user.Plan != PlanFree {
		return TrialResult{Allowed: true, RemainingRuns: -1}, nil
	}
	if user.FreeTrialRuns >= FreeTrialRuns {
		return TrialResult{}, ErrTrialExhausted
	}

	runs, err := s.repo.IncrementTrialRuns(ctx, id, FreeTrialRuns)
	if err != nil {
		return TrialResult{}, err
	}
	return TrialResult{Allowed: true, RemainingRuns: max(0, FreeTrialRuns-runs)}, nil
}

func (s *Service) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword(passwordKey("cetra-placeholder-password"), s.hashCost)
	})
	return s.dummyHash
}

// passwordKey digests the password before bcrypt so inputs longer than
// bcrypt's 72-byte limit are accepted without truncation.
func passwordKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
