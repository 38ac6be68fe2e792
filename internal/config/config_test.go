package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JKevinXu/NewsAgent/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(anthropicKeyEnv, "")
	t.Setenv(mailToEnv, "")

	cfg := Load()

	if cfg.Scheduler.CronExpression != "0 6 * * *" {
		t.Fatalf("cron = %q", cfg.Scheduler.CronExpression)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("location = %s", cfg.Scheduler.Location())
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("server address = %q", cfg.Server.Address)
	}
	if len(cfg.Sources) != 2 ||
		cfg.Sources[0].Name != domain.SourceHackerNews ||
		cfg.Sources[1].Name != domain.SourceGitHubTrending {
		t.Fatalf("sources = %+v", cfg.Sources)
	}
	if cfg.TTS.MaxInputLength != 3000 {
		t.Fatalf("tts ceiling = %d", cfg.TTS.MaxInputLength)
	}
	if cfg.Redis.TTLDays != 30 {
		t.Fatalf("redis ttl days = %d", cfg.Redis.TTLDays)
	}
	if cfg.Anthropic.Model == "" {
		t.Fatal("expected a default model")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
logging:
  level: debug
scheduler:
  cronExpression: "30 7 * * *"
  timezone: "America/New_York"
sources:
  - name: hackernews
    limit: 3
tts:
  maxInputLength: 1500
mail:
  from: news@example.com
  to:
    - alice@example.com
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
	if cfg.Scheduler.CronExpression != "30 7 * * *" {
		t.Fatalf("cron = %q", cfg.Scheduler.CronExpression)
	}
	if cfg.Scheduler.Location().String() != "America/New_York" {
		t.Fatalf("location = %s", cfg.Scheduler.Location())
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Limit != 3 {
		t.Fatalf("sources = %+v", cfg.Sources)
	}
	if cfg.TTS.MaxInputLength != 1500 {
		t.Fatalf("tts ceiling = %d", cfg.TTS.MaxInputLength)
	}
	// Unset file fields keep their defaults.
	if cfg.Server.Address != ":8080" {
		t.Fatalf("server address = %q", cfg.Server.Address)
	}
	if cfg.Mail.From != "news@example.com" || len(cfg.Mail.To) != 1 {
		t.Fatalf("mail = %+v", cfg.Mail)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(anthropicKeyEnv, "sk-ant-test")
	t.Setenv(anthropicModelEnv, "claude-sonnet-4-20250514")
	t.Setenv(mailToEnv, "a@example.com, b@example.com,,")
	t.Setenv(redisAddressEnv, "redis.internal:6380")
	t.Setenv(serverAddressEnv, ":9090")

	cfg := Load()

	if cfg.Anthropic.APIKey != "sk-ant-test" {
		t.Fatalf("anthropic key = %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Fatalf("model = %q", cfg.Anthropic.Model)
	}
	if len(cfg.Mail.To) != 2 || cfg.Mail.To[0] != "a@example.com" || cfg.Mail.To[1] != "b@example.com" {
		t.Fatalf("mail to = %v", cfg.Mail.To)
	}
	if cfg.Redis.Address != "redis.internal:6380" {
		t.Fatalf("redis address = %q", cfg.Redis.Address)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("server address = %q", cfg.Server.Address)
	}
}

func TestLoadUnknownTimezoneFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "scheduler:\n  timezone: Mars/Olympus\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("location = %s", cfg.Scheduler.Location())
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList(" one@example.com ,two@example.com, ,")
	if len(got) != 2 || got[0] != "one@example.com" || got[1] != "two@example.com" {
		t.Fatalf("splitList = %v", got)
	}
}
