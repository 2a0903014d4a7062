package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/demkkka/webcam-surveillance/internal/schedule"
)

// Config holds the runtime configuration for the surveillance process.
// It is constructed once at startup and passed by reference into the
// components that need it; there is no ambient global configuration.
type Config struct {
	// Telegram holds the notification credentials.
	Telegram TelegramConfig `yaml:"telegram"`
	// Camera selects the capture device.
	Camera CameraConfig `yaml:"camera"`
	// Motion tunes the detection and notification policy.
	Motion MotionConfig `yaml:"motion"`
	// DailyPhoto configures the heartbeat photo.
	DailyPhoto DailyPhotoConfig `yaml:"daily_photo"`

	// chatID is the parsed recipient chat, set by Validate.
	chatID int64
	// photoTime is the validated daily fire time, set by Validate.
	photoTime schedule.TimeOfDay
}

// TelegramConfig identifies the notification bot and recipient.
type TelegramConfig struct {
	// Token is the bot API token. Overridable via TELEGRAM_BOT_TOKEN.
	Token string `yaml:"token"`
	// ChatID is the recipient chat. Overridable via TELEGRAM_CHAT_ID.
	ChatID string `yaml:"chat_id"`
}

// CameraConfig selects the video source.
type CameraConfig struct {
	// Device is the numeric capture device ID (0 is the default webcam).
	Device int `yaml:"device"`
}

// MotionConfig tunes the motion pipeline and the notification cadence.
type MotionConfig struct {
	// MinContourArea is the motion significance threshold in pixels.
	MinContourArea float64 `yaml:"min_contour_area"`
	// SendInterval is the cooldown between two motion notifications.
	SendInterval time.Duration `yaml:"send_interval"`
	// CaptureDelay is the pause between two capture cycles.
	CaptureDelay time.Duration `yaml:"capture_delay"`
}

// DailyPhotoConfig configures the scheduled heartbeat photo.
type DailyPhotoConfig struct {
	// Time is the local wall-clock fire time, e.g. "14:00".
	Time string `yaml:"time"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "webcam-surveillance.yaml"

	// DefaultMinContourArea is the default motion significance threshold.
	DefaultMinContourArea = 5000

	// DefaultSendInterval is the default notification cooldown.
	DefaultSendInterval = 3 * time.Second

	// DefaultCaptureDelay is the default pause between capture cycles.
	DefaultCaptureDelay = 100 * time.Millisecond

	// DefaultDailyPhotoTime is the default heartbeat fire time.
	DefaultDailyPhotoTime = "14:00"

	// envToken and envChatID override the file-based credentials.
	envToken  = "TELEGRAM_BOT_TOKEN"
	envChatID = "TELEGRAM_CHAT_ID"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errTokenRequired is returned when the bot token is missing.
	errTokenRequired = errors.New("telegram bot token must be provided")
	// errTokenMalformed is returned when the token fails the shape check.
	// The offending value is deliberately not included.
	errTokenMalformed = errors.New("telegram bot token must look like <id>:<secret>")
	// errChatIDRequired is returned when the recipient chat is missing.
	errChatIDRequired = errors.New("telegram chat ID must be provided")
	// errChatIDMalformed is returned when the chat ID is not an integer.
	// The offending value is deliberately not included.
	errChatIDMalformed = errors.New("telegram chat ID must be an integer")
	// errCooldownTooShort is returned when the notification cooldown is
	// shorter than one capture cycle, which would defeat the debounce.
	errCooldownTooShort = errors.New("send interval must not be shorter than the capture delay")
	// errBadCameraDevice is returned for negative device IDs.
	errBadCameraDevice = errors.New("camera device must not be negative")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates the result. A missing file at the default path is
// not an error: the original deployment runs on environment variables alone.
// Credentials may also come from a .env file in the working directory.
func Load(path string) (*Config, error) {
	// A .env file is optional; real environment variables win over it.
	_ = godotenv.Load()

	optional := path == "" || path == DefaultConfigFilename
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := &Config{}

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case os.IsNotExist(err) && optional:
		// Environment-only operation.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	applyEnvOverrides(cfg)

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides lets the environment take precedence over the file for
// credentials.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv(envToken); token != "" {
		cfg.Telegram.Token = token
	}

	if chatID := os.Getenv(envChatID); chatID != "" {
		cfg.Telegram.ChatID = chatID
	}
}

// Validate checks the provided settings for required fields, applies
// defaults and parses the derived values. Credential checks come first so
// the process fails fast before any camera resource is acquired.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Telegram.Token == "" {
		return errTokenRequired
	}

	// Minimal token shape check; the Bot API does the real validation.
	if !strings.Contains(cfg.Telegram.Token, ":") {
		return errTokenMalformed
	}

	if cfg.Telegram.ChatID == "" {
		return errChatIDRequired
	}

	chatID, err := strconv.ParseInt(cfg.Telegram.ChatID, 10, 64)
	if err != nil {
		return errChatIDMalformed
	}

	cfg.chatID = chatID

	if cfg.Camera.Device < 0 {
		return errBadCameraDevice
	}

	// Apply defaults for unset tuning knobs.
	if cfg.Motion.MinContourArea <= 0 {
		cfg.Motion.MinContourArea = DefaultMinContourArea
	}

	if cfg.Motion.SendInterval <= 0 {
		cfg.Motion.SendInterval = DefaultSendInterval
	}

	if cfg.Motion.CaptureDelay <= 0 {
		cfg.Motion.CaptureDelay = DefaultCaptureDelay
	}

	if cfg.Motion.SendInterval < cfg.Motion.CaptureDelay {
		return errCooldownTooShort
	}

	if cfg.DailyPhoto.Time == "" {
		cfg.DailyPhoto.Time = DefaultDailyPhotoTime
	}

	photoTime, err := schedule.ParseTimeOfDay(cfg.DailyPhoto.Time)
	if err != nil {
		return fmt.Errorf("daily photo time: %w", err)
	}

	cfg.photoTime = photoTime

	return nil
}

// ChatID returns the parsed recipient chat ID. Only valid after Validate.
func (c *Config) ChatID() int64 {
	return c.chatID
}

// PhotoTime returns the validated daily photo fire time. Only valid after
// Validate.
func (c *Config) PhotoTime() schedule.TimeOfDay {
	return c.photoTime
}

// Secrets returns the credential values that must never reach a log line.
func (c *Config) Secrets() []string {
	return []string{c.Telegram.Token, c.Telegram.ChatID}
}
