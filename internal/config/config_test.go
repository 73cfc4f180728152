package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, expireHours string) string {
	t.Helper()
	dir := t.TempDir()
	yaml := `server:
  port: "8080"
  mode: debug
jwt:
  secret: "test-secret"
  expire_hours: ` + expireHours + `
storage:
  type: minio
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigExpireHoursNumeric(t *testing.T) {
	viper.Reset()
	cfg, err := LoadConfig(writeConfig(t, "72"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWT.ExpireTime != 72*time.Hour {
		t.Errorf("ExpireTime = %v, want 72h", cfg.JWT.ExpireTime)
	}
}

func TestLoadConfigExpireHoursWithUnit(t *testing.T) {
	viper.Reset()
	cfg, err := LoadConfig(writeConfig(t, "72h"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWT.ExpireTime != 72*time.Hour {
		t.Errorf("ExpireTime = %v, want 72h", cfg.JWT.ExpireTime)
	}
	if cfg.JWT.ExpireTime <= 0 {
		t.Fatalf("ExpireTime must stay positive, got %v", cfg.JWT.ExpireTime)
	}
}

func TestLoadConfigEngineDefaults(t *testing.T) {
	viper.Reset()
	cfg, err := LoadConfig(writeConfig(t, "24"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Engine.SweepIntervalSeconds != 30 {
		t.Errorf("SweepIntervalSeconds = %d, want default 30", cfg.Engine.SweepIntervalSeconds)
	}
	if cfg.Engine.AnswerQueueSize != 1024 {
		t.Errorf("AnswerQueueSize = %d, want default 1024", cfg.Engine.AnswerQueueSize)
	}
}
