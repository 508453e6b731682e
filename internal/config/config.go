package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configName    = "remote"
	storeFileName = ".connections.json"
	mountDirName  = "mnt"
	envPrefix     = "REMOTE"
)

// Config is built once at startup and passed to everything that needs a path
// or a tool name.
type Config struct {
	StorePath      string        `mapstructure:"store_path" yaml:"store_path"`
	MountRoot      string        `mapstructure:"mount_root" yaml:"mount_root"`
	SSHKey         string        `mapstructure:"ssh_key" yaml:"ssh_key"`
	SSHBinary      string        `mapstructure:"ssh_binary" yaml:"ssh_binary"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"-"`
	Clipboard      bool          `mapstructure:"clipboard" yaml:"clipboard"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	Mount          Tool          `mapstructure:"mount" yaml:"mount"`
	Unmount        Tool          `mapstructure:"unmount" yaml:"unmount"`
}

// Tool describes an external utility invocation.
type Tool struct {
	Command string   `mapstructure:"command" yaml:"command"`
	Args    []string `mapstructure:"args" yaml:"args,omitempty"`
	Options []string `mapstructure:"options" yaml:"options,omitempty"`
	Sudo    bool     `mapstructure:"sudo" yaml:"sudo"`
}

// ExecutableDir returns the directory holding the running binary, with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// UserPath returns the per-user config file path.
func UserPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, configName, configName+".yaml"), nil
}

// Defaults returns the default settings for a binary installed in dir.
func Defaults(dir string) map[string]any {
	return map[string]any{
		"store_path":      filepath.Join(dir, storeFileName),
		"mount_root":      filepath.Join(dir, mountDirName),
		"ssh_key":         "~/.ssh/id_rsa.pub",
		"ssh_binary":      "ssh",
		"connect_timeout": 10 * time.Second,
		"clipboard":       true,
		"log_level":       "info",
		"mount.command":   "sshfs",
		"mount.options":   []string{"allow_other"},
		"mount.sudo":      true,
		"unmount.command": "fusermount",
		"unmount.args":    []string{"-u"},
		"unmount.sudo":    true,
	}
}

// Load reads configuration for the running binary. cfgFile overrides the
// search path when non-empty.
func Load(cfgFile string) (*Config, error) {
	dir, err := ExecutableDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir, cfgFile)
}

// LoadFrom reads configuration as if the binary lived in dir.
//
// Precedence, highest first: REMOTE_* environment (including a .env file
// beside the binary), the config file, defaults.
func LoadFrom(dir, cfgFile string) (*Config, error) {
	v := viper.New()
	for key, value := range Defaults(dir) {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if p, err := UserPath(); err == nil {
			v.AddConfigPath(filepath.Dir(p))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Existing environment wins over .env entries.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.StorePath = resolvePath(dir, cfg.StorePath)
	cfg.MountRoot = resolvePath(dir, cfg.MountRoot)
	cfg.SSHKey = ExpandPath(cfg.SSHKey)
	return &cfg, nil
}

// Save writes cfg as YAML to path, creating the parent directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML with a human-readable timeout.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// MarshalYAML writes connect_timeout as a duration string ("10s") rather
// than nanoseconds so the file reads back through viper unchanged.
func (c Config) MarshalYAML() (any, error) {
	type plain Config
	return struct {
		plain          `yaml:",inline"`
		ConnectTimeout string `yaml:"connect_timeout"`
	}{plain(c), c.ConnectTimeout.String()}, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// resolvePath anchors relative paths beside the binary.
func resolvePath(dir, path string) string {
	path = ExpandPath(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
