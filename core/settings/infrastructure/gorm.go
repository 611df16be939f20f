package infrastructure

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppSettingModel struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (AppSettingModel) TableName() string {
	return "app_settings"
}

type AppSettingsGormRepository struct {
	db *gorm.DB
}

func NewAppSettingsGormRepository(db *gorm.DB) *AppSettingsGormRepository {
	return &AppSettingsGormRepository{db: db}
}

func (r *AppSettingsGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&AppSettingModel{})
}

func (r *AppSettingsGormRepository) Get(ctx context.Context, key string) (string, error) {
	var m AppSettingModel
	if err := r.db.WithContext(ctx).First(&m, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(m.Value), nil
}

func (r *AppSettingsGormRepository) Set(ctx context.Context, key string, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&AppSettingModel{
		Key:   key,
		Value: value,
	}).Error
}

func (r *AppSettingsGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&AppSettingModel{}, "key = ?", key).Error
}
