package usecase

import (
	"context"
	"strings"
	"time"

	domainProfile "github.com/commentify/commentify/domains/profile"
	pkgError "github.com/commentify/commentify/pkg/error"
	"github.com/commentify/commentify/pkg/instagram"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type profileModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	UserID    string    `gorm:"column:user_id;not null;index"`
	Platform  string    `gorm:"column:platform;not null"`
	Name      string    `gorm:"column:name;not null"`
	Cookie    string    `gorm:"column:cookie;not null"`
	Proxy     string    `gorm:"column:proxy"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (profileModel) TableName() string {
	return "profiles"
}

type profileService struct {
	db *gorm.DB
}

func (s *profileService) initSchema() error {
	return s.db.AutoMigrate(&profileModel{})
}

func NewProfileService(db *gorm.DB) domainProfile.IProfileUsecase {
	s := &profileService{db: db}
	if db != nil {
		if err := s.initSchema(); err != nil {
			logrus.WithError(err).Error("[PROFILE] failed to init schema")
		}
	} else {
		logrus.Error("[PROFILE] GORM DB is nil, service will be disabled")
	}
	return s
}

func (s *profileService) ensureDB() error {
	if s.db == nil {
		return pkgError.InternalServerError("profile storage is not initialized")
	}
	return nil
}

func (s *profileService) Create(ctx context.Context, userID string, req domainProfile.CreateProfileRequest) (domainProfile.Profile, error) {
	if err := s.ensureDB(); err != nil {
		return domainProfile.Profile{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domainProfile.Profile{}, pkgError.ValidationError("name: cannot be blank.")
	}

	platform := domainProfile.Platform(strings.TrimSpace(string(req.Platform)))
	if platform == "" {
		platform = domainProfile.PlatformInstagram
	}
	if !platform.Valid() {
		return domainProfile.Profile{}, pkgError.ValidationError("platform: unsupported platform.")
	}

	cookie := strings.TrimSpace(req.Cookie)
	if cookie == "" {
		return domainProfile.Profile{}, pkgError.ValidationError("cookie: cannot be blank.")
	}
	if err := instagram.ValidateCookiePayload(cookie); err != nil {
		return domainProfile.Profile{}, err
	}

	proxy := strings.TrimSpace(req.Proxy)
	if proxy != "" {
		if _, err := instagram.ParseProxy(proxy); err != nil {
			return domainProfile.Profile{}, err
		}
	}

	model := profileModel{
		ID:       uuid.NewString(),
		UserID:   userID,
		Platform: string(platform),
		Name:     name,
		Cookie:   cookie,
		Proxy:    proxy,
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domainProfile.Profile{}, err
	}

	return profileFromModel(model), nil
}

func (s *profileService) List(ctx context.Context, userID string, platform domainProfile.Platform) ([]domainProfile.Profile, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	var models []profileModel
	query := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC")

	if platform != "" {
		query = query.Where("platform = ?", string(platform))
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]domainProfile.Profile, len(models))
	for i, m := range models {
		result[i] = profileFromModel(m)
	}

	return result, nil
}

func (s *profileService) GetByIDs(ctx context.Context, userID string, ids []string) ([]domainProfile.Profile, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var models []profileModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&models).Error; err != nil {
		return nil, err
	}

	// preserve the order the caller asked for
	byID := make(map[string]profileModel, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}

	result := make([]domainProfile.Profile, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			result = append(result, profileFromModel(m))
		}
	}

	return result, nil
}

func (s *profileService) Delete(ctx context.Context, userID string, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return pkgError.ValidationError("id: cannot be blank.")
	}

	result := s.db.WithContext(ctx).Delete(&profileModel{}, "id = ? AND user_id = ?", trimmed, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgError.NotFoundError("profile not found")
	}
	return nil
}

// --- Helpers ---

func profileFromModel(m profileModel) domainProfile.Profile {
	return domainProfile.Profile{
		ID:       m.ID,
		UserID:   m.UserID,
		Platform: domainProfile.Platform(m.Platform),
		Name:     m.Name,
		Cookie:   m.Cookie,
		Proxy:    m.Proxy,
	}
}
