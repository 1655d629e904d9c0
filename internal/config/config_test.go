package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"smartdeals/internal/config"
)

func TestLoad(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(cfg config.Config)
	}{
		{
			name: "Defaults",
			env: map[string]string{
				"ADMIN_PASSWORD": "secret",
				"JWT_SECRET":     "jwt",
			},
			check: func(cfg config.Config) {
				rq.Equal(config.DriverSQLite, cfg.Database.Driver)
				rq.Equal(20*time.Minute, cfg.Scan.Interval)
				rq.Equal(15*time.Second, cfg.Scan.RequestTimeout)
				rq.Equal(config.TriggerTicker, cfg.Scan.Trigger)
				rq.Equal("admin", cfg.Auth.AdminUsername)
				rq.False(cfg.Redis.Enabled())
				rq.False(cfg.Bot.Enabled())
			},
		},
		{
			name: "Bot admins and memory store",
			env: map[string]string{
				"ADMIN_PASSWORD": "secret",
				"JWT_SECRET":     "jwt",
				"DB_DRIVER":      "memory",
				"DB_DSN":         "",
				"BOT_TOKEN":      "1:x",
				"BOT_ADMIN_ID":   "10,20",
			},
			check: func(cfg config.Config) {
				rq.Equal(config.DriverMemory, cfg.Database.Driver)
				rq.Equal([]int64{10, 20}, cfg.Bot.AdminID)
				rq.True(cfg.Bot.Enabled())
			},
		},
		{
			name: "Missing secrets",
			env: map[string]string{
				"ADMIN_PASSWORD": "",
				"JWT_SECRET":     "",
			},
			wantErr: true,
		},
		{
			name: "Unknown driver",
			env: map[string]string{
				"ADMIN_PASSWORD": "secret",
				"JWT_SECRET":     "jwt",
				"DB_DRIVER":      "mysql",
			},
			wantErr: true,
		},
		{
			name: "Asynq trigger without redis",
			env: map[string]string{
				"ADMIN_PASSWORD": "secret",
				"JWT_SECRET":     "jwt",
				"SCAN_TRIGGER":   "asynq",
				"REDIS_ADDR":     "",
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			tc.check(cfg)
		})
	}
}
