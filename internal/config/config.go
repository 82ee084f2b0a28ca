package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RankTaskDef defines a single windowed ranking task from the config file.
type RankTaskDef struct {
	Name      string `yaml:"name"`
	K         int    `yaml:"k"`
	Hop       string `yaml:"hop"`
	Window    string `yaml:"window"`
	NumShards uint32 `yaml:"num_shards"`
}

// ClickHouseConfig holds connection settings for ClickHouse writers and queriers.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WriterDef defines a single snapshot writer for an aggregator group.
type WriterDef struct {
	Type             string           `yaml:"type"` // "clickhouse", "text" or "gob"
	Enabled          bool             `yaml:"enabled"`
	SnapshotInterval string           `yaml:"snapshot_interval"`
	RootPath         string           `yaml:"root_path"`
	ClickHouse       ClickHouseConfig `yaml:"clickhouse"`
}

// RankAggregatorConfig groups the ranking tasks with their writers.
type RankAggregatorConfig struct {
	Tasks   []RankTaskDef `yaml:"tasks"`
	Writers []WriterDef   `yaml:"writers"`
}

// AggregatorConfig holds the configuration for the ranking engine.
type AggregatorConfig struct {
	Types              []string             `yaml:"types"`
	Rank               RankAggregatorConfig `yaml:"rank"`
	Period             string               `yaml:"period"`
	NumWorkers         int                  `yaml:"num_workers"`
	SizeOfEventChannel int                  `yaml:"size_of_event_channel"`
}

// PersistenceConfig holds the settings for the probe's local capture log.
type PersistenceConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Path              string `yaml:"path"`
	Encoding          string `yaml:"encoding"` // "gob", "text" or "pcap"
	NumWorkers        int    `yaml:"num_workers"`
	ChannelBufferSize int    `yaml:"channel_buffer_size"`
}

// ProbeConfig holds the NATS transport settings and the packet-to-event
// mapping used by the probe.
type ProbeConfig struct {
	NATSURL     string            `yaml:"nats_url"`
	Subject     string            `yaml:"subject"`
	GroupBy     string            `yaml:"group_by"` // "src_ip" or "dst_ip"
	Metric      string            `yaml:"metric"`   // "frame_len", "src_port" or "dst_port"
	Persistence PersistenceConfig `yaml:"persistence"`
}

// KafkaConfig holds the settings for the optional Kafka ingest source.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// AlerterRule defines a single alerting rule evaluated against a task.
type AlerterRule struct {
	Name      string  `yaml:"name"`
	TaskName  string  `yaml:"task_name"`
	Metric    string  `yaml:"metric"` // "top_value" or "group_count"
	Operator  string  `yaml:"operator"`
	Threshold float64 `yaml:"threshold"`
}

// AlerterConfig holds the alerter settings.
type AlerterConfig struct {
	Enabled       bool          `yaml:"enabled"`
	CheckInterval string        `yaml:"check_interval"`
	Rules         []AlerterRule `yaml:"rules"`
}

// SMTPConfig holds the settings for the email notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// APIConfig holds the settings for the HTTP query API.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Probe      ProbeConfig      `yaml:"probe"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Alerter    AlerterConfig    `yaml:"alerter"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	API        APIConfig        `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
