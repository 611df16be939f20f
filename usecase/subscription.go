package usecase

import (
	"context"
	"strings"
	"time"

	domainSubscription "github.com/commentify/commentify/domains/subscription"
	pkgError "github.com/commentify/commentify/pkg/error"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const trialDuration = 7 * 24 * time.Hour

// --- Persistence Model ---

type subscriptionModel struct {
	UserID    string     `gorm:"primaryKey;column:user_id"`
	PlanType  string     `gorm:"column:plan_type;not null"`
	Status    string     `gorm:"column:status;not null"`
	TrialUsed bool       `gorm:"column:trial_used;not null;default:false"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (subscriptionModel) TableName() string {
	return "subscriptions"
}

type subscriptionService struct {
	db            *gorm.DB
	unlimitedUser string
	now           func() time.Time
}

func (s *subscriptionService) initSchema() error {
	return s.db.AutoMigrate(&subscriptionModel{})
}

// NewSubscriptionService builds the entitlement store. unlimitedUser is the
// identity that is always entitled, independent of stored records.
func NewSubscriptionService(db *gorm.DB, unlimitedUser string) domainSubscription.ISubscriptionUsecase {
	s := &subscriptionService{db: db, unlimitedUser: unlimitedUser, now: time.Now}
	if db != nil {
		if err := s.initSchema(); err != nil {
			logrus.WithError(err).Error("[SUBSCRIPTION] failed to init schema")
		}
	} else {
		logrus.Error("[SUBSCRIPTION] GORM DB is nil, service will be disabled")
	}
	return s
}

func (s *subscriptionService) ensureDB() error {
	if s.db == nil {
		return pkgError.InternalServerError("subscription storage is not initialized")
	}
	return nil
}

func (s *subscriptionService) Get(ctx context.Context, userID string) (domainSubscription.Subscription, error) {
	if err := s.ensureDB(); err != nil {
		return domainSubscription.Subscription{}, err
	}

	var model subscriptionModel
	err := s.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		// no stored record means the free plan
		return domainSubscription.Subscription{
			UserID:   userID,
			PlanType: domainSubscription.PlanFree,
			Status:   domainSubscription.StatusActive,
		}, nil
	}
	if err != nil {
		return domainSubscription.Subscription{}, err
	}

	sub := subscriptionFromModel(model)
	if sub.ExpiresAt != nil && sub.ExpiresAt.Before(s.now()) && sub.Status == domainSubscription.StatusActive {
		sub.Status = domainSubscription.StatusExpired
	}
	if sub.ExpiresAt != nil && sub.ExpiresAt.After(s.now()) {
		sub.ExpiresIn = humanize.Time(*sub.ExpiresAt)
	}
	return sub, nil
}

func (s *subscriptionService) UseTrial(ctx context.Context, userID string) (domainSubscription.Subscription, error) {
	if err := s.ensureDB(); err != nil {
		return domainSubscription.Subscription{}, err
	}

	if s.isUnlimited(userID) {
		return s.Get(ctx, userID)
	}

	var model subscriptionModel
	err := s.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return domainSubscription.Subscription{}, err
	}
	if err == nil && model.TrialUsed {
		return domainSubscription.Subscription{}, pkgError.ValidationError("trial: already used.")
	}

	expires := s.now().Add(trialDuration)
	model = subscriptionModel{
		UserID:    userID,
		PlanType:  string(domainSubscription.PlanStarter),
		Status:    string(domainSubscription.StatusActive),
		TrialUsed: true,
		ExpiresAt: &expires,
	}

	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return domainSubscription.Subscription{}, err
	}

	logrus.Infof("[SUBSCRIPTION] Trial activated for %s until %s", userID, expires.Format(time.RFC3339))
	return s.Get(ctx, userID)
}

func (s *subscriptionService) Upgrade(ctx context.Context, userID string, plan domainSubscription.PlanType) (domainSubscription.Subscription, error) {
	if err := s.ensureDB(); err != nil {
		return domainSubscription.Subscription{}, err
	}

	if !plan.Valid() || plan == domainSubscription.PlanFree {
		return domainSubscription.Subscription{}, pkgError.ValidationError("plan_type: unsupported plan.")
	}

	// Payment provider checkout is not wired; the upgrade records the plan
	// directly with a one-month cycle.
	expires := s.now().AddDate(0, 1, 0)
	model := subscriptionModel{
		UserID:    userID,
		PlanType:  string(plan),
		Status:    string(domainSubscription.StatusActive),
		ExpiresAt: &expires,
	}

	var existing subscriptionModel
	err := s.db.WithContext(ctx).First(&existing, "user_id = ?", userID).Error
	if err == nil {
		model.TrialUsed = existing.TrialUsed
	} else if err != gorm.ErrRecordNotFound {
		return domainSubscription.Subscription{}, err
	}

	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return domainSubscription.Subscription{}, err
	}

	logrus.Infof("[SUBSCRIPTION] User %s upgraded to %s", userID, plan)
	return s.Get(ctx, userID)
}

func (s *subscriptionService) CanAutomate(ctx context.Context, userID string) bool {
	if s.isUnlimited(userID) {
		return true
	}

	sub, err := s.Get(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("[SUBSCRIPTION] entitlement check failed, denying")
		return false
	}

	return sub.PlanType != domainSubscription.PlanFree && sub.Status == domainSubscription.StatusActive
}

func (s *subscriptionService) isUnlimited(userID string) bool {
	return s.unlimitedUser != "" && strings.EqualFold(userID, s.unlimitedUser)
}

// --- Helpers ---

func subscriptionFromModel(m subscriptionModel) domainSubscription.Subscription {
	return domainSubscription.Subscription{
		UserID:    m.UserID,
		PlanType:  domainSubscription.PlanType(m.PlanType),
		Status:    domainSubscription.Status(m.Status),
		TrialUsed: m.TrialUsed,
		ExpiresAt: m.ExpiresAt,
	}
}
