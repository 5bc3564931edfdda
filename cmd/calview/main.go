package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/calview/internal/config"
)

var (
	configPath   string
	firstWeekday string
	logger       *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "calview",
		Short:         "Terminal calendar",
		Long:          "Month, ISO week and day calendar views with notes, ICS events and production calendar days",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ., $HOME/.calview, /etc/calview)")
	rootCmd.PersistentFlags().StringVar(&firstWeekday, "first-weekday", "", "First day of the week (sunday..saturday or 0..6), overrides config")

	rootCmd.AddCommand(
		monthCmd(),
		weekCmd(),
		dayCmd(),
		stepCmd("next", "Show the next period of the last view", true),
		stepCmd("prev", "Show the previous period of the last view", false),
		todayCmd(),
		isoCmd(),
		watchCmd(),
		configCmd(),
	)

	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the config, applies flag overrides and sets up the logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		initLogger(zapcore.InfoLevel)
		return nil, err
	}
	cfg.ExpandEnvVars()

	if firstWeekday != "" {
		cfg.View.FirstWeekday = firstWeekday
		if err := cfg.Validate(); err != nil {
			initLogger(zapcore.InfoLevel)
			return nil, fmt.Errorf("invalid --first-weekday: %w", err)
		}
	}

	if cfg.Log.File != "" {
		logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
		if err != nil {
			initLogger(cfg.Log.GetLevel()) // Fallback to console
		}
	} else {
		initLogger(cfg.Log.GetLevel())
	}

	return cfg, nil
}

func initLogger(level zapcore.Level) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
