package identity

import "time"

// Plans a user can be on. Paid tiers are assigned by billing.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// User is a registered dashboard account. The password hash never leaves the
// service: it is excluded from the JSON view returned by every endpoint.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Plan          string    `json:"plan"`
	Credits       int       `json:"credits"`
	Referrals     int       `json:"referrals"`
	Language      string    `json:"language"`
	FreeTrialRuns int       `json:"freeTrialRuns"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SignupInput is the signup request schema.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}

// LoginInput is the login request schema.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TrialResult reports whether a trial run may proceed. RemainingRuns is -1
// for plans without a trial quota.
type TrialResult struct {
	Allowed       bool `json:"allowed"`
	RemainingRuns int  `json:"remainingRuns"`
}
