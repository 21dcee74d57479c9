package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shiftgate/shiftgate/internal/sampler"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults fill fields a deployment request omits.
type Defaults struct {
	ObservationWindow     Duration `yaml:"observation_window"`
	Timeout               Duration `yaml:"timeout"`
	MaxErrorRate          float64  `yaml:"max_error_rate"`
	MaxLatencyP99         Duration `yaml:"max_latency_p99"`
	MinSaturationHeadroom float64  `yaml:"min_saturation_headroom"`
}

type Prometheus struct {
	URL     string          `yaml:"url"`
	Queries sampler.Queries `yaml:"queries"`
}

type Config struct {
	Port         int        `yaml:"port"`
	DataDir      string     `yaml:"data_dir"`
	RouterDir    string     `yaml:"router_dir"`
	Prometheus   Prometheus `yaml:"prometheus"`
	PollInterval Duration   `yaml:"poll_interval"`
	NotifyBuffer int        `yaml:"notify_buffer"`
	Defaults     Defaults   `yaml:"defaults"`
}

func Default() Config {
	return Config{
		Port:         8080,
		DataDir:      "./data",
		RouterDir:    "./data/routes",
		PollInterval: Duration(5 * time.Second),
		NotifyBuffer: 64,
		Prometheus: Prometheus{
			URL: "http://localhost:9090",
			Queries: sampler.Queries{
				ErrorRate:     `sum(rate(http_requests_total{env="$ENV",code=~"5.."}[$WINDOW])) / sum(rate(http_requests_total{env="$ENV"}[$WINDOW]))`,
				LatencyP99:    `histogram_quantile(0.99, sum(rate(http_request_duration_seconds_bucket{env="$ENV"}[$WINDOW])) by (le))`,
				Saturation:    `max(container_cpu_usage_ratio{env="$ENV"})`,
				TrafficVolume: `sum(increase(http_requests_total{env="$ENV"}[$WINDOW]))`,
			},
		},
		Defaults: Defaults{
			ObservationWindow:     Duration(30 * time.Second),
			Timeout:               Duration(10 * time.Minute),
			MaxErrorRate:          0.01,
			MaxLatencyP99:         Duration(500 * time.Millisecond),
			MinSaturationHeadroom: 0.1,
		},
	}
}

// Load reads YAML configuration from path. If path is empty it resolves
// $XDG_CONFIG_HOME/shiftgate/config.yaml or ~/.config/shiftgate/config.yaml;
// a missing default file yields the built-in defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if path == "" {
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
		path = filepath.Join(base, "shiftgate", "config.yaml")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
