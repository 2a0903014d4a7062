package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeSettings drops YAML settings into a temporary directory and returns
// the file path.
func writeSettings(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

// TestLoadFromFile verifies a full settings file round-trips with parsed
// derived values.
func TestLoadFromFile(t *testing.T) {
	path := writeSettings(t, `
telegram:
  token: "123456:abcdef"
  chat_id: "-1001234"
camera:
  device: 2
motion:
  min_contour_area: 2500
  send_interval: 5s
  capture_delay: 250ms
daily_photo:
  time: "09:30"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "123456:abcdef", cfg.Telegram.Token)
	require.Equal(t, int64(-1001234), cfg.ChatID())
	require.Equal(t, 2, cfg.Camera.Device)
	require.Equal(t, float64(2500), cfg.Motion.MinContourArea)
	require.Equal(t, 5*time.Second, cfg.Motion.SendInterval)
	require.Equal(t, 250*time.Millisecond, cfg.Motion.CaptureDelay)
	require.Equal(t, "09:30", cfg.PhotoTime().String())
}

// TestLoadAppliesDefaults verifies unset tuning knobs fall back to the
// documented defaults.
func TestLoadAppliesDefaults(t *testing.T) {
	path := writeSettings(t, `
telegram:
  token: "123456:abcdef"
  chat_id: "42"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, float64(DefaultMinContourArea), cfg.Motion.MinContourArea)
	require.Equal(t, DefaultSendInterval, cfg.Motion.SendInterval)
	require.Equal(t, DefaultCaptureDelay, cfg.Motion.CaptureDelay)
	require.Equal(t, DefaultDailyPhotoTime, cfg.PhotoTime().String())
	require.Equal(t, 0, cfg.Camera.Device)
}

// TestLoadEnvOnly verifies the process can run with no settings file at all,
// taking credentials from the environment.
func TestLoadEnvOnly(t *testing.T) {
	t.Setenv(envToken, "987654:zyxwvu")
	t.Setenv(envChatID, "1000")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "987654:zyxwvu", cfg.Telegram.Token)
	require.Equal(t, int64(1000), cfg.ChatID())
}

// TestLoadEnvOverridesFile verifies environment credentials win over the
// settings file.
func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv(envToken, "987654:fromenv")
	t.Setenv(envChatID, "2000")

	path := writeSettings(t, `
telegram:
  token: "123456:fromfile"
  chat_id: "42"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "987654:fromenv", cfg.Telegram.Token)
	require.Equal(t, int64(2000), cfg.ChatID())
}

// TestLoadExplicitMissingPath verifies a missing file is only tolerated at
// the default path.
func TestLoadExplicitMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

// TestValidateRejectsBadInput covers the credential and tuning guards.
func TestValidateRejectsBadInput(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Telegram: TelegramConfig{Token: "123456:abcdef", ChatID: "42"},
		}
	}

	testCases := []struct {
		name        string
		mutate      func(cfg *Config)
		expectedErr error
	}{
		{
			name:        "missing token",
			mutate:      func(cfg *Config) { cfg.Telegram.Token = "" },
			expectedErr: errTokenRequired,
		},
		{
			name:        "token without separator",
			mutate:      func(cfg *Config) { cfg.Telegram.Token = "123456abcdef" },
			expectedErr: errTokenMalformed,
		},
		{
			name:        "missing chat ID",
			mutate:      func(cfg *Config) { cfg.Telegram.ChatID = "" },
			expectedErr: errChatIDRequired,
		},
		{
			name:        "non-numeric chat ID",
			mutate:      func(cfg *Config) { cfg.Telegram.ChatID = "not-a-number" },
			expectedErr: errChatIDMalformed,
		},
		{
			name:        "negative camera device",
			mutate:      func(cfg *Config) { cfg.Camera.Device = -1 },
			expectedErr: errBadCameraDevice,
		},
		{
			name: "cooldown shorter than capture delay",
			mutate: func(cfg *Config) {
				cfg.Motion.SendInterval = 50 * time.Millisecond
				cfg.Motion.CaptureDelay = 100 * time.Millisecond
			},
			expectedErr: errCooldownTooShort,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			testCase.mutate(cfg)

			require.ErrorIs(t, Validate(cfg), testCase.expectedErr)
		})
	}
}

// TestValidateNil verifies a nil configuration is rejected.
func TestValidateNil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
}

// TestValidateRejectsBadPhotoTime verifies malformed fire times are caught
// at startup.
func TestValidateRejectsBadPhotoTime(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Telegram:   TelegramConfig{Token: "123456:abcdef", ChatID: "42"},
		DailyPhoto: DailyPhotoConfig{Time: "25:00"},
	}

	require.Error(t, Validate(cfg))
}

// TestSecrets verifies both credential values are reported for masking.
func TestSecrets(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Telegram: TelegramConfig{Token: "123456:abcdef", ChatID: "42"},
	}
	require.NoError(t, Validate(cfg))

	require.Equal(t, []string{"123456:abcdef", "42"}, cfg.Secrets())
}
