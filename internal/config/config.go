package config

import (
	"bytes"
	_ "embed"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

//go:embed defaults.yaml
var defaults []byte

// Environment variables the original deployment uses for the Event Hubs producer.
const (
	EnvEventHubConnStr = "EVENT_HUB_CONN_STR"
	EnvEventHubName    = "EVENT_HUB_NAME"
)

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig     `mapstructure:"http"`
	Log        LogConfig      `mapstructure:"log"`
	Broker     BrokerConfig   `mapstructure:"broker"`
	EventHub   EventHubConfig `mapstructure:"eventhub"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	Redis      RedisConfig    `mapstructure:"redis"`
	NATS       NATSConfig     `mapstructure:"nats"`
	MySQL      DatabaseConfig `mapstructure:"mysql"`
	ClickHouse DatabaseConfig `mapstructure:"clickhouse"`
	Outbox     OutboxConfig   `mapstructure:"outbox"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr         string     `mapstructure:"addr"`
	BodyLimit    string     `mapstructure:"body_limit"`
	StrictStatus bool       `mapstructure:"strict_status"`
	CORS         CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // json | console
}

type BrokerConfig struct {
	Driver          string        `mapstructure:"driver"` // eventhub | kafka | redis | nats | outbox | clickhouse
	MaxMessageBytes int           `mapstructure:"max_message_bytes"`
	PublishTimeout  time.Duration `mapstructure:"publish_timeout"`
}

type EventHubConfig struct {
	ConnectionString string        `mapstructure:"connection_string"`
	Name             string        `mapstructure:"name"`
	Port             int           `mapstructure:"port"`
	DialTimeout      time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string   `mapstructure:"brokers"`
	Topic          string     `mapstructure:"topic"`
	GroupID        string     `mapstructure:"group_id"`
	MinBytes       int        `mapstructure:"min_bytes"`
	MaxBytes       int        `mapstructure:"max_bytes"`
	CommitInterval int        `mapstructure:"commit_interval_ms"`
	SASL           SASLConfig `mapstructure:"sasl"`
	TLS            bool       `mapstructure:"tls"`
}

type SASLConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Stream      string        `mapstructure:"stream"`
	MaxLen      int64         `mapstructure:"max_len"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	Subject        string        `mapstructure:"subject"`
	JetStream      bool          `mapstructure:"jetstream"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type OutboxConfig struct {
	Aggregate string `mapstructure:"aggregate"`
	Topic     string `mapstructure:"topic"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (EVGW_*).
// EVENT_HUB_CONN_STR and EVENT_HUB_NAME are bound without the prefix.
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (EVGW_*)
	v.SetEnvPrefix("EVGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("eventhub.connection_string", EnvEventHubConnStr); err != nil {
		return Config{}, err
	}
	if err := v.BindEnv("eventhub.name", EnvEventHubName); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment.
// Variables that are already set win; a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := gotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
