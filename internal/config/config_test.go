package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, HasherBcrypt, cfg.PasswordHasher)
	assert.Equal(t, []string{"http://localhost:3069"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.ResetDB)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("PASSWORD_HASHER", "argon2id")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, HasherArgon2id, cfg.PasswordHasher)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nSERVER_PORT=9090\n"), 0o600))

	// godotenv sets real process variables; clear them after the test.
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SERVER_PORT", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	require.NoError(t, os.Unsetenv("SERVER_PORT"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.ServerPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.TokenTTL = 0 },
			wantErr: "TOKEN_TTL must be positive",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.DBDriver = "oracle" },
			wantErr: `unsupported DB_DRIVER "oracle"`,
		},
		{
			name:    "unknown hasher",
			mutate:  func(c *Config) { c.PasswordHasher = "md5" },
			wantErr: `unsupported PASSWORD_HASHER "md5"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				JWTSecret:      "secret",
				TokenTTL:       time.Hour,
				DBDriver:       DriverMySQL,
				PasswordHasher: HasherBcrypt,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_SkipsValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CATEGORY_SEED_URL", "http://seed.example/categories.json")

	cfg, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, "http://seed.example/categories.json", cfg.CategorySeedURL)

	_, err = Load("")
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}
