package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
auth:
  jwt_secret: file-secret-0123456789
  access_token_ttl: 10m
log:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	t.Setenv("GONGSA_SERVER_PORT", "9191")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("环境变量应覆盖配置文件，期望 9191，实际 %d", cfg.Server.Port)
	}
	if cfg.Auth.AccessTokenTTL != 10*time.Minute {
		t.Errorf("期望 AccessTokenTTL=10m，实际 %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.RefreshPath != "/api/user/login/refresh" {
		t.Errorf("期望默认刷新路径，实际 %s", cfg.Auth.RefreshPath)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("期望默认 request_timeout=5s，实际 %v", cfg.Server.RequestTimeout)
	}
	if cfg.Study.DailyHourLimit != 24 {
		t.Errorf("期望默认 daily_hour_limit=24，实际 %d", cfg.Study.DailyHourLimit)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("期望 log.level=debug，实际 %s", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080, RequestTimeout: time.Second},
			Study:  StudyConfig{DailyHourLimit: 24},
			Auth: AuthConfig{
				JWTSecret:       "0123456789abcdef",
				AccessTokenTTL:  time.Minute,
				RefreshTokenTTL: time.Hour,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "short secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.RequestTimeout = 0 }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.AccessTokenTTL = 0 }, wantErr: true},
		{name: "daily limit above 24", mutate: func(c *Config) { c.Study.DailyHourLimit = 25 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
