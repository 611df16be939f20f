package subscription

import (
	"context"
	"time"
)

type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanStarter PlanType = "starter"
	PlanPro     PlanType = "pro"
	PlanTikTok  PlanType = "tiktok"
)

func (p PlanType) Valid() bool {
	return p == PlanFree || p == PlanStarter || p == PlanPro || p == PlanTikTok
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Subscription is a user's entitlement record. A user with no stored record
// is on the free plan.
type Subscription struct {
	UserID    string     `json:"-"`
	PlanType  PlanType   `json:"plan_type"`
	Status    Status     `json:"status"`
	TrialUsed bool       `json:"trial_used"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ExpiresIn string     `json:"expires_in,omitempty"`
}

type ISubscriptionUsecase interface {
	Get(ctx context.Context, userID string) (Subscription, error)
	UseTrial(ctx context.Context, userID string) (Subscription, error)
	Upgrade(ctx context.Context, userID string, plan PlanType) (Subscription, error)
	// CanAutomate reports whether the identity may run automation. One
	// identity is always granted, independent of any stored record.
	CanAutomate(ctx context.Context, userID string) bool
}
