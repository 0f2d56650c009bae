package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestInitAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `
app:
  port: 9000
jwt:
  secret_key: s3cret
`)
	require.NoError(t, Init(dir))

	cfg := GetConfig()
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.JWT.SecretKey)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, "memory", cfg.JWT.Blacklist)
	assert.Equal(t, []string{"*"}, cfg.App.Cors.AllowOrigins)
	assert.Equal(t, "0 0 3 * * *", cfg.Job.NotificationCleanupSpec)
	assert.Equal(t, 30, cfg.Job.NotificationRetentionDays)
}

func TestInitEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: postgres
  host: db
  port: 5432
jwt:
  secret_key: from-file
`)
	t.Setenv("JWT_SECRET_KEY", "from-env")
	t.Setenv("DATABASE_PORT", "5433")
	require.NoError(t, Init(dir))

	cfg := GetConfig()
	assert.Equal(t, "from-env", cfg.JWT.SecretKey)
	assert.Equal(t, 5433, cfg.Database.Port)
}

func TestInitMissingFile(t *testing.T) {
	assert.Error(t, Init(t.TempDir()))
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "sqlite default path",
			cfg:  DatabaseConfig{Driver: "sqlite"},
			want: "restaurant.db",
		},
		{
			name: "sqlite explicit path",
			cfg:  DatabaseConfig{Driver: "sqlite", Path: "/tmp/x.db"},
			want: "/tmp/x.db",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}

	mysql := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, Username: "u", Password: "p", Database: "r", Charset: "utf8mb4"}
	assert.Contains(t, mysql.DSN(), "u:p@tcp(db:3306)/r")

	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, Username: "u", Password: "p", Database: "r"}
	assert.Contains(t, pg.DSN(), "host=db")
	assert.Contains(t, pg.DSN(), "dbname=r")
}

func TestRedisAddr(t *testing.T) {
	assert.Equal(t, "cache:6380", (&RedisConfig{Host: "cache", Port: 6380}).Addr())
}
