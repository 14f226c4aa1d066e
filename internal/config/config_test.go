package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigReadsPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
server:
  address: ":4000"
database:
  driver: "mysql"
  url: "user:pass@tcp(127.0.0.1:3306)/postlink?parseTime=true"
redis:
  addr: "127.0.0.1:6379"
  db: 2
jwt:
  signing_key: "secret"
mail:
  endpoint: "https://mail.example.com/send"
  from: "noreply@postlink.io"
storage:
  bucket: "postlink-content"
admin:
  email: "admin@postlink.io"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg := LoadConfig()

	if cfg.Server.Address != ":4000" {
		t.Errorf("server address = %q", cfg.Server.Address)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("database driver = %q", cfg.Database.Driver)
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis = %q/%d", cfg.Redis.Addr, cfg.Redis.DB)
	}
	if cfg.JWT.SigningKey != "secret" {
		t.Errorf("signing key = %q", cfg.JWT.SigningKey)
	}
	if cfg.Mail.From != "noreply@postlink.io" {
		t.Errorf("mail from = %q", cfg.Mail.From)
	}
	if cfg.Storage.Bucket != "postlink-content" {
		t.Errorf("storage bucket = %q", cfg.Storage.Bucket)
	}
	if cfg.Admin.Email != "admin@postlink.io" {
		t.Errorf("admin email = %q", cfg.Admin.Email)
	}
}
