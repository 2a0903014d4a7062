package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/demkkka/webcam-surveillance/internal/config"
	"github.com/demkkka/webcam-surveillance/internal/service/watcher"
	"github.com/demkkka/webcam-surveillance/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the default log level.
	logLevel string
	// cameraDevice overrides the configured capture device.
	cameraDevice int

	// rootCmd represents the base command for running the surveillance process.
	rootCmd = &cobra.Command{
		Use:   "webcam-surveillance",
		Short: "Watch a webcam and send motion photos to a Telegram chat.",
		Long: `Runs a surveillance process against a local webcam.

Frames are read continuously and compared against a rolling background model.
When a significant moving region appears, a photo of the frame is sent to the
configured Telegram chat, debounced by a cooldown interval. Once a day, at a
configured wall-clock time, the latest frame is sent as a heartbeat photo so
an absent notification stream can be told apart from a dead camera.

Credentials come from the settings file, the environment (TELEGRAM_BOT_TOKEN,
TELEGRAM_CHAT_ID) or a .env file in the working directory.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &watcher.Options{
				ConfigPath:   configPath,
				CameraDevice: cameraDevice,
				LogLevel:     logLevel,
			}

			return watcher.Run(ctx, options)
		},
	}
)

// Execute runs the webcam-surveillance CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn or error")
	rootCmd.Flags().IntVarP(&cameraDevice, "camera", "d", -1, "capture device ID, negative values defer to configuration")
}
