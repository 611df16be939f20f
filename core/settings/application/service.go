package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/commentify/commentify/core/settings/domain"
	"github.com/commentify/commentify/core/settings/infrastructure"
	pkgError "github.com/commentify/commentify/pkg/error"
	"gorm.io/gorm"
)

const (
	minIntervalSeconds = 1
	maxIntervalSeconds = 300
)

type SettingsService struct {
	repo            domain.ISettingsRepository
	defaultInterval time.Duration
}

func NewSettingsService(db *gorm.DB, defaultInterval time.Duration) *SettingsService {
	if defaultInterval <= 0 {
		defaultInterval = 2 * time.Second
	}
	return &SettingsService{
		repo:            infrastructure.NewAppSettingsGormRepository(db),
		defaultInterval: defaultInterval,
	}
}

// EnsureSchema prepares the backing table. Called once at startup.
func (s *SettingsService) EnsureSchema(ctx context.Context) error {
	return s.repo.InitSchema(ctx)
}

// AutomationSettings are the knobs tunable at runtime without a restart.
type AutomationSettings struct {
	IntervalSeconds int `json:"interval_seconds"`
}

func (s *SettingsService) GetAutomationSettings(ctx context.Context) (AutomationSettings, error) {
	settings := AutomationSettings{
		IntervalSeconds: int(s.defaultInterval.Round(time.Second) / time.Second),
	}
	if settings.IntervalSeconds < minIntervalSeconds {
		settings.IntervalSeconds = minIntervalSeconds
	}

	val, err := s.repo.Get(ctx, domain.KeyAutomationIntervalSeconds)
	if err != nil {
		return AutomationSettings{}, err
	}
	if val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= minIntervalSeconds && n <= maxIntervalSeconds {
			settings.IntervalSeconds = n
		}
	}
	return settings, nil
}

func (s *SettingsService) SetAutomationInterval(ctx context.Context, seconds int) error {
	if seconds < minIntervalSeconds || seconds > maxIntervalSeconds {
		return pkgError.ValidationError(fmt.Sprintf("interval_seconds: must be between %d and %d.", minIntervalSeconds, maxIntervalSeconds))
	}
	return s.repo.Set(ctx, domain.KeyAutomationIntervalSeconds, strconv.Itoa(seconds))
}

// AutomationDelay resolves the pause applied between comment attempts.
// Without a stored override the configured default applies unchanged, and
// lookup failures also fall back to it so a run never stalls on a
// settings read.
func (s *SettingsService) AutomationDelay(ctx context.Context) time.Duration {
	val, err := s.repo.Get(ctx, domain.KeyAutomationIntervalSeconds)
	if err != nil || val == "" {
		return s.defaultInterval
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < minIntervalSeconds || n > maxIntervalSeconds {
		return s.defaultInterval
	}
	return time.Duration(n) * time.Second
}
