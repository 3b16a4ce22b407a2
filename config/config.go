package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"communitygraph/internal/input/csvfile"
)

// Config is the root configuration.
type Config struct {
	CommunityGraph CommunityGraphConfig `yaml:"communitygraph"`
}

// CommunityGraphConfig is the project configuration.
type CommunityGraphConfig struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
	Mock    MockConfig    `yaml:"mock"`
}

// InputConfig controls the row source.
type InputConfig struct {
	Mode    string          `yaml:"mode"` // file|redis
	File    FileConfig      `yaml:"file"`
	Redis   RedisConfig     `yaml:"redis"`
	Columns csvfile.Columns `yaml:"columns"`
}

// OutputConfig controls where the graph document goes.
type OutputConfig struct {
	Mode  string      `yaml:"mode"` // file|http|redis
	File  FileConfig  `yaml:"file"`
	HTTP  HTTPConfig  `yaml:"http"`
	Redis RedisConfig `yaml:"redis"`
}

// FileConfig config for a local file.
type FileConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig controls Redis access.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// HTTPConfig config for remote output.
type HTTPConfig struct {
	URL     string            `yaml:"url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// MetricsConfig controls build metrics export.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// MockConfig controls the synthetic data generator.
type MockConfig struct {
	Rows int    `yaml:"rows"`
	Path string `yaml:"path"`
}

// LoadConfig reads and parses a YAML config file. Defaults are applied.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	cg := &cfg.CommunityGraph

	if cg.Input.Mode == "" {
		cg.Input.Mode = "file"
	}
	if cg.Input.File.Path == "" {
		cg.Input.File.Path = "mock_community_events.csv"
	}
	if cg.Input.Redis.Addr == "" {
		cg.Input.Redis.Addr = "127.0.0.1:6379"
	}
	if cg.Input.Redis.Key == "" {
		cg.Input.Redis.Key = "community_events"
	}

	defaults := csvfile.DefaultColumns()
	if cg.Input.Columns.Initiator == "" {
		cg.Input.Columns.Initiator = defaults.Initiator
	}
	if cg.Input.Columns.Participant == "" {
		cg.Input.Columns.Participant = defaults.Participant
	}
	if cg.Input.Columns.Topic == "" {
		cg.Input.Columns.Topic = defaults.Topic
	}
	if cg.Input.Columns.Venue == "" {
		cg.Input.Columns.Venue = defaults.Venue
	}
	if cg.Input.Columns.Time == "" {
		cg.Input.Columns.Time = defaults.Time
	}

	if cg.Output.Mode == "" {
		cg.Output.Mode = "file"
	}
	if cg.Output.File.Path == "" {
		cg.Output.File.Path = "graph_data.json"
	}
	if cg.Output.HTTP.Timeout <= 0 {
		cg.Output.HTTP.Timeout = 5 * time.Second
	}
	if cg.Output.Redis.Addr == "" {
		cg.Output.Redis.Addr = "127.0.0.1:6379"
	}
	if cg.Output.Redis.Key == "" {
		cg.Output.Redis.Key = "communitygraph:graph"
	}

	if cg.Logging.Level == "" {
		cg.Logging.Level = "info"
	}

	if cg.Mock.Rows <= 0 {
		cg.Mock.Rows = 50
	}
	if cg.Mock.Path == "" {
		cg.Mock.Path = cg.Input.File.Path
	}
}
