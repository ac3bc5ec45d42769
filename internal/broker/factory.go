package broker

import (
	"fmt"
	"strings"

	"github.com/jmehdipour/eventhub-gateway/internal/config"
	"github.com/jmehdipour/eventhub-gateway/internal/db"
	"github.com/jmehdipour/eventhub-gateway/internal/eventhub"
	"github.com/jmehdipour/eventhub-gateway/internal/kafka"
	"github.com/jmehdipour/eventhub-gateway/internal/repository"
	"go.uber.org/zap"
)

// New builds the publisher selected by cfg.Broker.Driver. It is called once at
// startup; the result is shared by all requests and closed on shutdown.
func New(cfg config.Config, log *zap.Logger) (Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Broker.Driver))

	switch driver {
	case DriverEventHub, "":
		info, err := eventhub.Parse(cfg.EventHub.ConnectionString, cfg.EventHub.Name, cfg.EventHub.Port)
		if err != nil {
			return nil, fmt.Errorf("event hub config: %w", err)
		}
		p := kafka.NewProducerFromConfig(kafka.ProducerConfig{
			Brokers:         []string{info.Broker},
			Topic:           info.EventHub,
			Auth:            kafka.PlainAuth(info.Username, info.Password, true),
			MaxMessageBytes: cfg.Broker.MaxMessageBytes,
			DialTimeout:     cfg.EventHub.DialTimeout,
			WriteTimeout:    cfg.Broker.PublishTimeout,
		})
		log.Info("event hub producer ready",
			zap.String("endpoint", info.Redacted()),
			zap.String("broker", info.Broker),
		)
		return NewKafkaPublisher(DriverEventHub, info.EventHub, p), nil

	case DriverKafka:
		if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
			return nil, fmt.Errorf("kafka config: brokers and topic are required")
		}
		p := kafka.NewProducerFromConfig(kafka.ProducerConfig{
			Brokers:         cfg.Kafka.Brokers,
			Topic:           cfg.Kafka.Topic,
			Auth:            kafka.PlainAuth(cfg.Kafka.SASL.Username, cfg.Kafka.SASL.Password, cfg.Kafka.TLS),
			MaxMessageBytes: cfg.Broker.MaxMessageBytes,
			WriteTimeout:    cfg.Broker.PublishTimeout,
		})
		log.Info("kafka producer ready",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
		return NewKafkaPublisher(DriverKafka, cfg.Kafka.Topic, p), nil

	case DriverRedis:
		rdb, err := db.NewRedisClient(db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		log.Info("redis stream publisher ready", zap.String("addr", cfg.Redis.Addr), zap.String("stream", cfg.Redis.Stream))
		return NewRedisPublisher(rdb, rdb, cfg.Redis.Stream, cfg.Redis.MaxLen), nil

	case DriverNATS:
		p, err := NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, cfg.NATS.JetStream, cfg.NATS.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		log.Info("nats publisher ready",
			zap.String("subject", cfg.NATS.Subject),
			zap.Bool("jetstream", cfg.NATS.JetStream),
		)
		return p, nil

	case DriverOutbox:
		mysqlDB, err := db.Open(db.DriverMySQL, sqlOpts(cfg.MySQL))
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		log.Info("outbox publisher ready", zap.String("topic", cfg.Outbox.Topic))
		return NewOutboxPublisher(repository.NewOutboxRepository(mysqlDB), mysqlDB, cfg.Outbox.Aggregate, cfg.Outbox.Topic), nil

	case DriverClickHouse:
		chDB, err := db.Open(db.DriverClickHouse, sqlOpts(cfg.ClickHouse))
		if err != nil {
			return nil, fmt.Errorf("clickhouse connect: %w", err)
		}
		log.Info("clickhouse publisher ready", zap.String("topic", cfg.Outbox.Topic))
		return NewClickHousePublisher(repository.NewCHEventsRepository(chDB), chDB, cfg.Outbox.Topic), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Broker.Driver)
	}
}

func sqlOpts(c config.DatabaseConfig) db.SQLOpts {
	return db.SQLOpts{
		DSN:             c.DSN,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
		PingTimeout:     c.PingTimeout,
	}
}
