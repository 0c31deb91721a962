package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

var (
	errConfigRead = errors.New("failed to read config file")
	errLoggerInit = errors.New("failed to initialize logger")
)

const (
	ConfigDirName      = "coh2-live"
	DefaultConfigName  = "coh2-live"
	DefaultLogName     = "coh2-live.log"
	EnvPrefix          = "coh2live"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config is the engine configuration. The logfile path and the API base URL
// are the only knobs the core needs; everything else tunes the collaborator
// surfaces.
type Config struct {
	// LogfilePath points at the warnings.log the game appends to.
	LogfilePath string `mapstructure:"logfile_path"`
	APIBaseURL  string `mapstructure:"api_base_url"`
	// RequestTimeoutSec applies per remote request, not per match.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec"`
	// NotifyOnMatch rings the terminal bell when a multiplayer match is
	// found.
	NotifyOnMatch bool `mapstructure:"notify_on_match"`
}

// RequestTimeout returns the per-request timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSec <= 0 {
		return DefaultHTTPTimeout
	}

	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Path generates a path pointing to the filename under this apps defined $XDG_CONFIG_HOME.
func Path(name string) string {
	fullPath, errFullPath := xdg.ConfigFile(path.Join(ConfigDirName, name))
	if errFullPath != nil {
		panic(errFullPath)
	}

	return fullPath
}

// defaultLogfilePath is where the game writes warnings.log per platform. On
// linux this is the feral interactive port's data dir.
func defaultLogfilePath() string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		homedir = "/"
	}

	switch runtime.GOOS {
	case "windows":
		return path.Join(homedir, "Documents", "My Games", "Company of Heroes 2", "warnings.log")
	default:
		return path.Join(homedir, ".local/share/feral-interactive/CompanyOfHeroes2/AppData/warnings.log")
	}
}

// LoggerInit sets up the slog global handler to use a log file so the
// console stays free for the match table.
func LoggerInit(logName string, level slog.Level) (io.Closer, error) {
	if err := os.MkdirAll(path.Join(xdg.ConfigHome, ConfigDirName), 0o750); err != nil {
		return nil, errors.Join(err, errLoggerInit)
	}

	logFile, errLogFile := os.Create(path.Join(xdg.ConfigHome, ConfigDirName, logName))
	if errLogFile != nil {
		return nil, errors.Join(errLogFile, errLoggerInit)
	}

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}))

	slog.SetDefault(logger)

	return logFile, nil
}
