package environment

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	// EnvironmentFile holds KEY=VALUE overrides, looked up in the working directory.
	EnvironmentFile = ".filmpy.env"
	envPrefix       = "FILMPY_"

	DefaultVideoToolBinary    = "ffmpeg"
	DefaultProbeToolBinary    = "ffprobe"
	DefaultPlaybackToolBinary = "ffplay"
	DefaultFrameRate          = 30.0
)

type contextKey string

const configKey contextKey = "config"

// Config is resolved once at startup and passed to everything that runs external tools.
type Config struct {
	VideoToolBinaryPath    string  `yaml:"video_tool_binary_path" json:"video_tool_binary_path" jsonschema:"default=ffmpeg"`
	ProbeToolBinaryPath    string  `yaml:"probe_tool_binary_path" json:"probe_tool_binary_path" jsonschema:"default=ffprobe"`
	PlaybackToolBinaryPath string  `yaml:"playback_tool_binary_path" json:"playback_tool_binary_path" jsonschema:"default=ffplay"`
	DefaultFrameRate       float64 `yaml:"default_frame_rate" json:"default_frame_rate" jsonschema:"exclusiveMinimum=0,default=30"`
	LogLevel               string  `yaml:"log_level" json:"log_level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	// TempDir is where intermediate audio files are written. Empty means os.TempDir.
	TempDir string `yaml:"temp_dir" json:"temp_dir,omitempty"`
	// WorkDir confines the files read and written by scripts submitted to the server.
	// Empty means the directory the server was started in.
	WorkDir string `yaml:"work_dir" json:"work_dir,omitempty"`
	// AllowedOrigins enables CORS on the server for these origins only.
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins,omitempty"`
}

func Default() *Config {
	return &Config{
		VideoToolBinaryPath:    DefaultVideoToolBinary,
		ProbeToolBinaryPath:    DefaultProbeToolBinary,
		PlaybackToolBinaryPath: DefaultPlaybackToolBinary,
		DefaultFrameRate:       DefaultFrameRate,
		LogLevel:               "info",
	}
}

// Load resolves the configuration: defaults, then the YAML file, then the
// environment file, then FILMPY_* variables. An empty path searches the usual locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, merry.Wrap(err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, common.Configurationf("invalid config file %s: %s", path, err)
			}
		}
	}

	if _, err := os.Stat(EnvironmentFile); err == nil {
		values, err := godotenv.Read(EnvironmentFile)
		if err != nil {
			return nil, common.Configurationf("invalid environment file %s: %s", EnvironmentFile, err)
		}
		if err := cfg.apply(values, ""); err != nil {
			return nil, err
		}
	}

	if err := cfg.apply(environ(), envPrefix); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) apply(values map[string]string, prefix string) error {
	if v, ok := values[prefix+"FFMPEG_BINARY"]; ok && v != "" {
		c.VideoToolBinaryPath = v
	}
	if v, ok := values[prefix+"FFPROBE_BINARY"]; ok && v != "" {
		c.ProbeToolBinaryPath = v
	}
	if v, ok := values[prefix+"FFPLAY_BINARY"]; ok && v != "" {
		c.PlaybackToolBinaryPath = v
	}
	if v, ok := values[prefix+"LOG_LEVEL"]; ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := values[prefix+"TEMP_DIR"]; ok && v != "" {
		c.TempDir = v
	}
	if v, ok := values[prefix+"WORK_DIR"]; ok && v != "" {
		c.WorkDir = v
	}
	if v, ok := values[prefix+"ALLOWED_ORIGINS"]; ok && v != "" {
		c.AllowedOrigins = lo.Compact(lo.Map(strings.Split(v, ","), func(o string, _ int) string {
			return strings.TrimSpace(o)
		}))
	}
	if v, ok := values[prefix+"DEFAULT_FRAME_RATE"]; ok && v != "" {
		fps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return common.Configurationf("invalid default frame rate %q", v)
		}
		c.DefaultFrameRate = fps
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DefaultFrameRate <= 0 {
		return common.Configurationf("default frame rate must be positive, got %v", c.DefaultFrameRate)
	}
	if c.VideoToolBinaryPath == "" || c.ProbeToolBinaryPath == "" {
		return common.Configurationf("video and probe tool binaries must be set")
	}
	for _, origin := range c.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return common.Configurationf("allowed origin %q must start with http:// or https://", origin)
		}
	}
	return nil
}

// GetWorkDir returns the absolute directory server scripts are confined to.
func (c *Config) GetWorkDir() (string, error) {
	dir := c.WorkDir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", merry.Wrap(err)
	}
	return abs, nil
}

func (c *Config) GetTempDir() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return os.TempDir()
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return merry.Wrap(err)
	}
	return os.WriteFile(path, data, 0644)
}

func environ() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, found := strings.Cut(kv, "=")
		if found && strings.HasPrefix(k, envPrefix) {
			out[k] = v
		}
	}
	return out
}

func findConfigFile() string {
	candidates := []string{
		"./filmpy.yaml",
		"./filmpy.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".filmpy", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
