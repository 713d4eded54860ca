package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// DiscordConfig holds credentials and guild wiring for the primary platform.
type DiscordConfig struct {
	BotToken         string `mapstructure:"bot_token"`
	PublicKey        string `mapstructure:"public_key"`
	GuildID          int64  `mapstructure:"guild_id"`
	TicketCategoryID int64  `mapstructure:"ticket_category_id"`
	SupportRoleID    int64  `mapstructure:"support_role_id"`
}

// TelegramConfig holds credentials and the static admin fan-out set.
type TelegramConfig struct {
	BotToken     string  `mapstructure:"bot_token"`
	AdminChatIDs []int64 `mapstructure:"admin_chat_ids"`
	AdminUserIDs []int64 `mapstructure:"admin_user_ids"`
	PollTimeout  int     `mapstructure:"poll_timeout"`
}

type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

type DigestConfig struct {
	RefreshIntervalSeconds int `mapstructure:"refresh_interval_seconds"`
}
