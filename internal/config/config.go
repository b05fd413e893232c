package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataPath       = "todo.dat"
	DefaultSQLitePath     = "todo.db"
	DefaultLogPath        = "todoapp.log"
	appDirName            = "todoapp"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	New       string `toml:"new"`
	Edit      string `toml:"edit"`
	Finish    string `toml:"finish"`
	Delete    string `toml:"delete"`
	Sort      string `toml:"sort"`
	Palette   string `toml:"palette"`
	Help      string `toml:"help"`
	Dismiss   string `toml:"dismiss"`
	NextField string `toml:"next_field"`
}

type LogConfig struct {
	Path   string `toml:"path"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	DataPath             string    `toml:"data_path"`
	Backend              string    `toml:"backend"`
	DesktopNotifications bool      `toml:"desktop_notifications"`
	SchedulerBuffer      int       `toml:"scheduler_buffer"`
	Log                  LogConfig `toml:"log"`
	Keys                 Keymap    `toml:"keys"`
}

func Default() Config {
	return Config{
		DataPath:             DefaultDataPath,
		Backend:              "cbor",
		DesktopNotifications: false,
		SchedulerBuffer:      8,
		Log: LogConfig{
			Path:   DefaultLogPath,
			Level:  "info",
			Format: "text",
		},
		Keys: Keymap{
			Quit:      "q",
			Up:        "k",
			Down:      "j",
			New:       "n",
			Edit:      "enter",
			Finish:    "x",
			Delete:    "d",
			Sort:      "s",
			Palette:   "/",
			Help:      "?",
			Dismiss:   "esc",
			NextField: "tab",
		},
	}
}

// ResolvePath returns the per-user config location, falling back to the
// working directory when no user config dir is known.
func ResolvePath() string {
	if v := strings.TrimSpace(os.Getenv("TODOAPP_CONFIG")); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there on first launch.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults() {
	def := Default()
	if strings.TrimSpace(c.DataPath) == "" {
		c.DataPath = def.DataPath
	}
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = def.Backend
	}
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = def.SchedulerBuffer
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// StorePath is the data path to open. An untouched default follows the
// backend's own file name.
func (c Config) StorePath() string {
	if c.DataPath == DefaultDataPath && strings.EqualFold(c.Backend, "sqlite") {
		return DefaultSQLitePath
	}
	return c.DataPath
}

// FromEnv applies TODOAPP_* overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TODOAPP_DATA_PATH"); ok {
		cfg.DataPath = v
	}
	if v, ok := getEnvString("TODOAPP_BACKEND"); ok {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvBool("TODOAPP_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("TODOAPP_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvString("TODOAPP_LOG_PATH"); ok {
		cfg.Log.Path = v
	}
	if v, ok := getEnvString("TODOAPP_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODOAPP_LOG_FORMAT"); ok {
		cfg.Log.Format = strings.ToLower(v)
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
