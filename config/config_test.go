package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_DSN", "DB_TIMEOUT_SECONDS", "PAGE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mydatabase.db", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Database.Timeout)
}

func TestLoad_RequiresSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := FromViper(newViper())
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/records")
	t.Setenv("PAGE_SIZE", "10")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.PageSize)
	assert.False(t, strings.Contains(cfg.String(), "s3cret"))
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("SECRET_KEY", "x")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := FromViper(newViper())
	assert.Error(t, err)
}
