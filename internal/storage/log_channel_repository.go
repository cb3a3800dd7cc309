package storage

import (
	"context"
	"fmt"
	"time"

	"discord-gban/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LogChannelRepository handles database operations for LogChannelConfig
type LogChannelRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLogChannelRepository creates a new LogChannelRepository
func NewLogChannelRepository(db *gorm.DB) *LogChannelRepository {
	return &LogChannelRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// MigrateTable ensures the global_ban_log_config table exists
func (r *LogChannelRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.LogChannelConfig{})
}

// SetLogChannel creates or replaces the log channel of a guild.
func (r *LogChannelRepository) SetLogChannel(ctx context.Context, guildID, channelID, setBy string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cfg := &models.LogChannelConfig{
			GuildID:   guildID,
			ChannelID: channelID,
			SetBy:     setBy,
			UpdatedAt: r.now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"channel_id", "set_by", "updated_at"}),
		}).Create(cfg).Error
	})
	if err != nil {
		return fmt.Errorf("set log channel for guild %s: %w", guildID, err)
	}
	return nil
}

// GetLogChannel returns the config of one guild, or nil when none is set.
func (r *LogChannelRepository) GetLogChannel(ctx context.Context, guildID string) (*models.LogChannelConfig, error) {
	var cfg models.LogChannelConfig
	result := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Limit(1).Find(&cfg)
	if result.Error != nil {
		return nil, fmt.Errorf("get log channel for guild %s: %w", guildID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &cfg, nil
}

// GetAllLogChannels returns guildID -> channelID for every configured guild.
func (r *LogChannelRepository) GetAllLogChannels(ctx context.Context) (map[string]string, error) {
	var configs []models.LogChannelConfig
	if err := r.db.WithContext(ctx).Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("get log channels: %w", err)
	}

	channels := make(map[string]string, len(configs))
	for _, c := range configs {
		channels[c.GuildID] = c.ChannelID
	}
	return channels, nil
}
