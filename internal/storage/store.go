package storage

import (
	"context"

	"discord-gban/internal/models"

	"gorm.io/gorm"
)

// Store bundles the two global ban repositories behind one handle.
type Store struct {
	Bans        *BanRepository
	LogChannels *LogChannelRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Bans:        NewBanRepository(db),
		LogChannels: NewLogChannelRepository(db),
	}
}

func (s *Store) AddBan(ctx context.Context, identity, issuedBy, reason string) (bool, error) {
	return s.Bans.AddBan(ctx, identity, issuedBy, reason)
}

func (s *Store) RemoveBan(ctx context.Context, identity string) (int64, error) {
	return s.Bans.RemoveBan(ctx, identity)
}

func (s *Store) ListBans(ctx context.Context) ([]models.GlobalBan, error) {
	return s.Bans.ListBans(ctx)
}

func (s *Store) SetLogChannel(ctx context.Context, guildID, channelID, setBy string) error {
	return s.LogChannels.SetLogChannel(ctx, guildID, channelID, setBy)
}

func (s *Store) GetAllLogChannels(ctx context.Context) (map[string]string, error) {
	return s.LogChannels.GetAllLogChannels(ctx)
}
