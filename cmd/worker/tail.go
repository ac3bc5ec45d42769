package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/eventhub-gateway/internal/broker"
	"github.com/jmehdipour/eventhub-gateway/internal/config"
	"github.com/jmehdipour/eventhub-gateway/internal/eventhub"
	"github.com/jmehdipour/eventhub-gateway/internal/kafka"
	"github.com/jmehdipour/eventhub-gateway/internal/logger"
	"github.com/jmehdipour/eventhub-gateway/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tailLimit int

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Read events back from the event hub / kafka topic and log them",
	RunE:  runTail,
}

func init() {
	tailCmd.Flags().IntVar(&tailLimit, "limit", 0, "stop after N events (0 = run until interrupted)")
}

func runTail(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	// 2) consumer settings follow the publishing driver
	kc := kafka.Config{
		GroupID:        cfg.Kafka.GroupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	}
	switch cfg.Broker.Driver {
	case broker.DriverEventHub, "":
		info, err := eventhub.Parse(cfg.EventHub.ConnectionString, cfg.EventHub.Name, cfg.EventHub.Port)
		if err != nil {
			return fmt.Errorf("event hub config: %w", err)
		}
		kc.Brokers = []string{info.Broker}
		kc.Topic = info.EventHub
		kc.Auth = kafka.PlainAuth(info.Username, info.Password, true)
	case broker.DriverKafka:
		kc.Brokers = cfg.Kafka.Brokers
		kc.Topic = cfg.Kafka.Topic
		kc.Auth = kafka.PlainAuth(cfg.Kafka.SASL.Username, cfg.Kafka.SASL.Password, cfg.Kafka.TLS)
	default:
		return fmt.Errorf("tail supports the eventhub and kafka drivers, got %q", cfg.Broker.Driver)
	}
	if kc.GroupID == "" {
		kc.GroupID = "evgw-tail"
	}

	consumer := kafka.NewConsumerFromConfig(kc)
	defer consumer.Close()

	t := worker.NewTailer(consumer, log)
	t.Limit = tailLimit

	// 3) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("tail started", zap.String("topic", kc.Topic), zap.String("group", kc.GroupID), zap.Int("limit", tailLimit))

	return t.Run(ctx)
}
