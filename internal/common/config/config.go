// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	SocietyAPI SocietyAPIConfig `mapstructure:"society_api"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Wizard     WizardConfig     `mapstructure:"wizard"`
	Export     ExportConfig     `mapstructure:"export"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the host:port listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SocietyAPIConfig holds the upstream member/loan records service settings.
type SocietyAPIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds TTLs for the member view cache.
type CacheConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MemberTTL     int  `mapstructure:"member_ttl"`      // milliseconds
	MemberListTTL int  `mapstructure:"member_list_ttl"` // milliseconds
}

// WizardConfig holds settings for the loan wizard sessions.
type WizardConfig struct {
	SessionTTL int `mapstructure:"session_ttl"` // milliseconds
}

// ExportConfig holds settings for report export rendering.
type ExportConfig struct {
	PDFTitle  string `mapstructure:"pdf_title"`
	SheetName string `mapstructure:"sheet_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
