package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JKevinXu/NewsAgent/internal/domain"
)

const (
	defaultTimezone = "UTC"

	configPathEnv     = "NEWS_AGENT_CONFIG"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	anthropicModelEnv = "ANTHROPIC_MODEL"
	ttsKeyEnv         = "TTS_API_KEY"
	storageKeyEnv     = "STORAGE_API_KEY"
	mailKeyEnv        = "MAIL_API_KEY"
	mailToEnv         = "MAIL_TO"
	redisAddressEnv   = "REDIS_ADDRESS"
	redisPasswordEnv  = "REDIS_PASSWORD"
	serverAddressEnv  = "SERVER_ADDRESS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Server    ServerConfig    `yaml:"server"`
	Sources   []SourceConfig  `yaml:"sources"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	TTS       TTSConfig       `yaml:"tts"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Mail      MailConfig      `yaml:"mail"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the digest pipeline runs.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ServerConfig describes the direct-trigger HTTP surface.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// SourceConfig enables one content source with its item limit.
type SourceConfig struct {
	Name  domain.Source `yaml:"name"`
	Limit int           `yaml:"limit"`
}

// AnthropicConfig defines how to contact the summarization model.
type AnthropicConfig struct {
	APIKey    string `yaml:"apiKey"`
	Model     string `yaml:"model"`
	MaxTokens int64  `yaml:"maxTokens"`
	BaseURL   string `yaml:"baseUrl"`
}

// TTSConfig wires the speech synthesis service.
type TTSConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"apiKey"`
	Model          string `yaml:"model"`
	Voice          string `yaml:"voice"`
	Format         string `yaml:"format"`
	MaxInputLength int    `yaml:"maxInputLength"`
}

// StorageConfig describes the audio object store.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	PublicBaseURL string `yaml:"publicBaseUrl"`
	APIKey        string `yaml:"apiKey"`
}

// RedisConfig describes the recommendation store connection.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLDays  int    `yaml:"ttlDays"`
}

// MailConfig wires digest email delivery.
type MailConfig struct {
	Endpoint      string   `yaml:"endpoint"`
	APIKey        string   `yaml:"apiKey"`
	From          string   `yaml:"from"`
	To            []string `yaml:"to"`
	SubjectPrefix string   `yaml:"subjectPrefix"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(anthropicKeyEnv); v != "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv(anthropicModelEnv); v != "" {
		c.Anthropic.Model = v
	}
	if v := os.Getenv(ttsKeyEnv); v != "" {
		c.TTS.APIKey = v
	}
	if v := os.Getenv(storageKeyEnv); v != "" {
		c.Storage.APIKey = v
	}
	if v := os.Getenv(mailKeyEnv); v != "" {
		c.Mail.APIKey = v
	}
	if v := os.Getenv(mailToEnv); v != "" {
		c.Mail.To = splitList(v)
	}
	if v := os.Getenv(redisAddressEnv); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv(redisPasswordEnv); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(serverAddressEnv); v != "" {
		c.Server.Address = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Server.Address != "" {
		base.Server = override.Server
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	if override.Anthropic.APIKey != "" {
		base.Anthropic.APIKey = override.Anthropic.APIKey
	}
	if override.Anthropic.Model != "" {
		base.Anthropic.Model = override.Anthropic.Model
	}
	if override.Anthropic.MaxTokens > 0 {
		base.Anthropic.MaxTokens = override.Anthropic.MaxTokens
	}
	if override.Anthropic.BaseURL != "" {
		base.Anthropic.BaseURL = override.Anthropic.BaseURL
	}

	if override.TTS.Endpoint != "" {
		base.TTS.Endpoint = override.TTS.Endpoint
	}
	if override.TTS.APIKey != "" {
		base.TTS.APIKey = override.TTS.APIKey
	}
	if override.TTS.Model != "" {
		base.TTS.Model = override.TTS.Model
	}
	if override.TTS.Voice != "" {
		base.TTS.Voice = override.TTS.Voice
	}
	if override.TTS.Format != "" {
		base.TTS.Format = override.TTS.Format
	}
	if override.TTS.MaxInputLength > 0 {
		base.TTS.MaxInputLength = override.TTS.MaxInputLength
	}

	if override.Storage.Endpoint != "" {
		base.Storage.Endpoint = override.Storage.Endpoint
	}
	if override.Storage.PublicBaseURL != "" {
		base.Storage.PublicBaseURL = override.Storage.PublicBaseURL
	}
	if override.Storage.APIKey != "" {
		base.Storage.APIKey = override.Storage.APIKey
	}

	if override.Redis.Address != "" {
		base.Redis.Address = override.Redis.Address
	}
	if override.Redis.Password != "" {
		base.Redis.Password = override.Redis.Password
	}
	if override.Redis.DB != 0 {
		base.Redis.DB = override.Redis.DB
	}
	if override.Redis.TTLDays > 0 {
		base.Redis.TTLDays = override.Redis.TTLDays
	}

	if override.Mail.Endpoint != "" {
		base.Mail.Endpoint = override.Mail.Endpoint
	}
	if override.Mail.APIKey != "" {
		base.Mail.APIKey = override.Mail.APIKey
	}
	if override.Mail.From != "" {
		base.Mail.From = override.Mail.From
	}
	if len(override.Mail.To) > 0 {
		base.Mail.To = override.Mail.To
	}
	if override.Mail.SubjectPrefix != "" {
		base.Mail.SubjectPrefix = override.Mail.SubjectPrefix
	}

	return base
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Server:    ServerConfig{Address: ":8080"},
		Sources: []SourceConfig{
			{Name: domain.SourceHackerNews, Limit: 10},
			{Name: domain.SourceGitHubTrending, Limit: 10},
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-3-5-haiku-latest",
			MaxTokens: 1024,
		},
		TTS: TTSConfig{
			Endpoint:       "https://api.openai.com/v1/audio/speech",
			Model:          "tts-1",
			Voice:          "alloy",
			Format:         "mp3",
			MaxInputLength: 3000,
		},
		Storage: StorageConfig{
			Endpoint:      "http://localhost:9000/newsagent",
			PublicBaseURL: "http://localhost:9000/newsagent",
		},
		Redis: RedisConfig{Address: "localhost:6379", TTLDays: 30},
		Mail: MailConfig{
			Endpoint:      "https://api.resend.com/emails",
			From:          "digest@newsagent.local",
			SubjectPrefix: "Daily Tech Digest",
		},
	}
}
