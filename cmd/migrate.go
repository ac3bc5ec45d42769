package cmd

import (
	"context"
	"fmt"

	"github.com/jmehdipour/eventhub-gateway/internal/config"
	"github.com/jmehdipour/eventhub-gateway/internal/db"
	"github.com/jmehdipour/eventhub-gateway/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateTarget string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables used by the outbox and clickhouse drivers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logger.Init(cfg.Log.Level, cfg.Log.Encoding)

		dbCfg := cfg.MySQL
		switch migrateTarget {
		case db.DriverMySQL:
		case db.DriverClickHouse:
			dbCfg = cfg.ClickHouse
		default:
			return fmt.Errorf("unknown migrate target %q (mysql | clickhouse)", migrateTarget)
		}

		sqlDB, err := db.Open(migrateTarget, db.SQLOpts{
			DSN:             dbCfg.DSN,
			MaxOpenConns:    1,
			ConnMaxLifetime: dbCfg.ConnMaxLifetime,
			PingTimeout:     dbCfg.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		applied, err := db.Migrate(context.Background(), sqlDB, migrateTarget)
		if err != nil {
			return err
		}

		log.Info("migration complete", zap.String("target", migrateTarget), zap.Strings("files", applied))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTarget, "target", db.DriverMySQL, "database to migrate: mysql | clickhouse")
}
