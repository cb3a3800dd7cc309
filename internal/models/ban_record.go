package models

import "time"

// GlobalBan is one identity banned across every guild the bot is in.
// At most one row exists per DiscordID; a re-ban after unban writes a fresh row.
type GlobalBan struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	DiscordID string    `gorm:"column:discord_id;size:32;uniqueIndex;not null"`
	BannedBy  string    `gorm:"column:banned_by;size:32;not null"`
	Reason    string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"index;not null"`
}

func (GlobalBan) TableName() string {
	return "global_bans"
}

// LogChannelConfig is the per-guild channel that receives global ban logs.
type LogChannelConfig struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	GuildID   string    `gorm:"column:guild_id;size:32;uniqueIndex;not null"`
	ChannelID string    `gorm:"column:channel_id;size:32;not null"`
	SetBy     string    `gorm:"column:set_by;size:32"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (LogChannelConfig) TableName() string {
	return "global_ban_log_config"
}
