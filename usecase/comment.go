package usecase

import (
	"context"
	"strings"
	"time"

	domainComment "github.com/commentify/commentify/domains/comment"
	domainProfile "github.com/commentify/commentify/domains/profile"
	pkgError "github.com/commentify/commentify/pkg/error"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type commentModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	UserID    string    `gorm:"column:user_id;not null;index"`
	Platform  string    `gorm:"column:platform;not null"`
	Text      string    `gorm:"column:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (commentModel) TableName() string {
	return "comments"
}

type commentService struct {
	db *gorm.DB
}

func (s *commentService) initSchema() error {
	return s.db.AutoMigrate(&commentModel{})
}

func NewCommentService(db *gorm.DB) domainComment.ICommentUsecase {
	s := &commentService{db: db}
	if db != nil {
		if err := s.initSchema(); err != nil {
			logrus.WithError(err).Error("[COMMENT] failed to init schema")
		}
	} else {
		logrus.Error("[COMMENT] GORM DB is nil, service will be disabled")
	}
	return s
}

func (s *commentService) ensureDB() error {
	if s.db == nil {
		return pkgError.InternalServerError("comment storage is not initialized")
	}
	return nil
}

func (s *commentService) Create(ctx context.Context, userID string, req domainComment.CreateCommentRequest) (domainComment.Comment, error) {
	if err := s.ensureDB(); err != nil {
		return domainComment.Comment{}, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domainComment.Comment{}, pkgError.ValidationError("text: cannot be blank.")
	}

	platform := domainProfile.Platform(strings.TrimSpace(string(req.Platform)))
	if platform == "" {
		platform = domainProfile.PlatformInstagram
	}
	if !platform.Valid() {
		return domainComment.Comment{}, pkgError.ValidationError("platform: unsupported platform.")
	}

	model := commentModel{
		ID:       uuid.NewString(),
		UserID:   userID,
		Platform: string(platform),
		Text:     text,
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domainComment.Comment{}, err
	}

	return commentFromModel(model), nil
}

func (s *commentService) List(ctx context.Context, userID string, platform domainProfile.Platform) ([]domainComment.Comment, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	var models []commentModel
	query := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC")

	if platform != "" {
		query = query.Where("platform = ?", string(platform))
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]domainComment.Comment, len(models))
	for i, m := range models {
		result[i] = commentFromModel(m)
	}

	return result, nil
}

func (s *commentService) GetByIDs(ctx context.Context, userID string, ids []string) ([]domainComment.Comment, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var models []commentModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&models).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]commentModel, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}

	result := make([]domainComment.Comment, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			result = append(result, commentFromModel(m))
		}
	}

	return result, nil
}

func (s *commentService) Delete(ctx context.Context, userID string, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return pkgError.ValidationError("id: cannot be blank.")
	}

	result := s.db.WithContext(ctx).Delete(&commentModel{}, "id = ? AND user_id = ?", trimmed, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgError.NotFoundError("comment not found")
	}
	return nil
}

// --- Helpers ---

func commentFromModel(m commentModel) domainComment.Comment {
	return domainComment.Comment{
		ID:       m.ID,
		UserID:   m.UserID,
		Platform: domainProfile.Platform(m.Platform),
		Text:     m.Text,
	}
}
