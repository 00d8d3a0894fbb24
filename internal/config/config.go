package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"triday/internal/actionlog"
)

type Config struct {
	Version string        `yaml:"version" json:"version"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Time    TimeConfig    `yaml:"time" json:"time"`
	Timers  TimersConfig  `yaml:"timers" json:"timers"`
	Cleanup CleanupConfig `yaml:"cleanup" json:"cleanup"`
}

type ServerConfig struct {
	Port    string `yaml:"port" json:"port"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type TimeConfig struct {
	// Timezone is an IANA identifier; invalid values fall back to UTC.
	Timezone string `yaml:"timezone" json:"timezone"`
	// WeekStartDay: 0=Sunday … 6=Saturday.
	WeekStartDay int `yaml:"week_start_day" json:"week_start_day"`
}

type TimersConfig struct {
	AllowConcurrent bool `yaml:"allow_concurrent" json:"allow_concurrent"`
}

type CleanupConfig struct {
	Thresholds actionlog.Thresholds `yaml:"thresholds" json:"thresholds"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8484"
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "data"
	}
	if c.Time.WeekStartDay < 0 || c.Time.WeekStartDay > 6 {
		c.Time.WeekStartDay = 0
	}
}

// Load reads YAML config from path. A missing file is not an error: the
// defaults apply.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := &Config{}
			c.ApplyDefaults()
			return c, nil
		}
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
