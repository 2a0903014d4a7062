package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/demkkka/webcam-surveillance/internal/camera"
	"github.com/demkkka/webcam-surveillance/internal/config"
	"github.com/demkkka/webcam-surveillance/internal/detector"
	"github.com/demkkka/webcam-surveillance/internal/frame"
	"github.com/demkkka/webcam-surveillance/internal/logger"
	"github.com/demkkka/webcam-surveillance/internal/notify"
	"github.com/demkkka/webcam-surveillance/internal/ratelimit"
	"github.com/demkkka/webcam-surveillance/internal/schedule"
)

// Options controls the surveillance process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// CameraDevice overrides the configured capture device when
	// non-negative.
	CameraDevice int
	// LogLevel overrides the default log level when non-empty.
	LogLevel string
}

// Run starts the surveillance process and blocks until the context is
// canceled or the camera fails. Credentials are validated against the Bot
// API before the camera is touched, so a misconfigured deployment fails
// fast without grabbing the device.
func Run(ctx context.Context, opts *Options) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	level := logger.Level()

	if opts.LogLevel != "" {
		parsed, ok := logger.ParseLogLevel(opts.LogLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", opts.LogLevel)
		}

		level = parsed
	}

	// Every log line from here on passes through the masking core, so the
	// bot token and chat ID never reach the output.
	logger.SetLogger(logger.New(level, logger.WithSecretMasking(settings.Secrets()...)))

	ctx = logger.WithName(ctx, "webcam-surveillance")

	sink, err := notify.NewTelegram(settings.Telegram.Token, settings.ChatID(), notify.DefaultSendTimeout)
	if err != nil {
		return fmt.Errorf("authorize telegram bot: %w", err)
	}

	logger.InfoKV(ctx, "Telegram bot authorized", "bot_username", sink.BotUsername())

	device := settings.Camera.Device
	if opts.CameraDevice >= 0 {
		device = opts.CameraDevice
	}

	cam, err := camera.OpenDevice(device)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	motionAnalyzer := detector.NewAnalyzer(settings.Motion.MinContourArea)
	latest := frame.NewSlot()

	svc := &service{
		camera:       cam,
		analyzer:     motionAnalyzer,
		limiter:      ratelimit.New(settings.Motion.SendInterval),
		slot:         latest,
		sink:         sink,
		scheduler:    schedule.NewScheduler(settings.PhotoTime(), latest, sink),
		captureDelay: settings.Motion.CaptureDelay,
		sendTimeout:  notify.DefaultSendTimeout,
		sendGrace:    defaultSendGrace,
		now:          time.Now,
	}

	logger.InfoKV(ctx, "Surveillance started",
		"camera_device", device,
		"min_contour_area", settings.Motion.MinContourArea,
		"send_interval", settings.Motion.SendInterval.String(),
		"capture_delay", settings.Motion.CaptureDelay.String(),
		"daily_photo_time", settings.PhotoTime().String())

	err = svc.run(ctx)

	if closeErr := cam.Close(); closeErr != nil {
		logger.Errorf(ctx, "Failed to close camera: %v", closeErr)
	}

	latest.Close()

	if closeErr := motionAnalyzer.Close(); closeErr != nil {
		logger.Errorf(ctx, "Failed to release analyzer: %v", closeErr)
	}

	logger.Info(ctx, "Surveillance stopped")

	return err
}
