package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	tests := []struct {
		name          string
		secret        string
		hours         int
		expectedHours int
		wantErr       string
	}{
		{name: "default expiration", secret: "test-secret-key", hours: 24, expectedHours: 24},
		{name: "custom expiration", secret: "test-secret-key", hours: 12, expectedHours: 12},
		{name: "minimum expiration", secret: "test-secret-key", hours: 1, expectedHours: 1},
		{name: "missing secret", secret: "", hours: 24, wantErr: "JWT_SECRET is required"},
		{name: "zero expiration", secret: "test-secret-key", hours: 0, wantErr: "at least 1 hour"},
		{name: "negative expiration", secret: "test-secret-key", hours: -5, wantErr: "at least 1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JWTSecret: tt.secret, JWTExpirationHours: tt.hours}
			jwtCfg, err := cfg.JWT()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, jwtCfg)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, jwtCfg.Secret)
			assert.Equal(t, tt.expectedHours, jwtCfg.ExpirationHours)
		})
	}
}

func TestJWT_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")

	cfg, err := Load("")
	require.NoError(t, err)

	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "from-env", jwtCfg.Secret)
	assert.Equal(t, 48, jwtCfg.ExpirationHours)
}
