package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Watch  WatchConfig  `yaml:"watch"`
	Relay  RelayConfig  `yaml:"relay"`
}

type ServerConfig struct {
	Port  int    `yaml:"port"`
	Host  string `yaml:"host"`
	Token string `yaml:"token"`
}

// WatchConfig scopes the listener to a single process. PID wins when both
// are set; Process is resolved to a PID at startup. Both zero/empty means
// any process.
type WatchConfig struct {
	PID     uint32 `yaml:"pid"`
	Process string `yaml:"process"`
}

type RelayConfig struct {
	BroadcastThrottle time.Duration `yaml:"broadcast_throttle"`
	SnapshotInterval  time.Duration `yaml:"snapshot_interval"`
	History           int           `yaml:"history"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8917,
			Host: "127.0.0.1",
		},
		Relay: RelayConfig{
			BroadcastThrottle: 100 * time.Millisecond,
			SnapshotInterval:  5 * time.Second,
			History:           32,
		},
	}
}

// Load reads the YAML config at path over the defaults. A missing file is
// not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
