package storage

import (
	"context"
	"fmt"
	"time"

	"discord-gban/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BanRepository handles database operations for GlobalBan
type BanRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBanRepository creates a new BanRepository
func NewBanRepository(db *gorm.DB) *BanRepository {
	return &BanRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// MigrateTable ensures the global_bans table exists
func (r *BanRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.GlobalBan{})
}

// AddBan inserts a ban for identity. It returns false, and leaves the
// existing row and its timestamp alone, when the identity is already banned.
func (r *BanRepository) AddBan(ctx context.Context, identity, issuedBy, reason string) (bool, error) {
	var inserted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := &models.GlobalBan{
			DiscordID: identity,
			BannedBy:  issuedBy,
			Reason:    reason,
			Timestamp: r.now(),
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_id"}},
			DoNothing: true,
		}).Create(record)
		if result.Error != nil {
			return result.Error
		}
		inserted = result.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("add ban %s: %w", identity, err)
	}
	return inserted, nil
}

// RemoveBan deletes the ban for identity and returns the number of rows removed.
func (r *BanRepository) RemoveBan(ctx context.Context, identity string) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("discord_id = ?", identity).Delete(&models.GlobalBan{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("remove ban %s: %w", identity, err)
	}
	return removed, nil
}

// ListBans returns every ban, newest first.
func (r *BanRepository) ListBans(ctx context.Context) ([]models.GlobalBan, error) {
	var bans []models.GlobalBan
	result := r.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Find(&bans)
	if result.Error != nil {
		return nil, fmt.Errorf("list bans: %w", result.Error)
	}
	return bans, nil
}

// Count returns the number of banned identities.
func (r *BanRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GlobalBan{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count bans: %w", err)
	}
	return count, nil
}
