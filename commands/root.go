package commands

import (
	"os"

	"sandwich-shop-api/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// flag overrides for the environment configuration
var (
	portFlag   string
	driverFlag string
	dsnFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "sandwich-shop",
	Short: "Sandwich shop order management API",
	Long: `Runs the sandwich shop back office: menu, recipes, inventory,
orders, promo codes and reviews over a JSON HTTP API.

Configuration is read from SANDWICH_* environment variables;
the persistent flags below take precedence when set.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "HTTP listen port (overrides SANDWICH_PORT)")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "db-driver", "", "database driver: sqlite, postgres or mysql (overrides SANDWICH_DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "db-dsn", "", "database DSN (overrides SANDWICH_DB_DSN)")

	rootCmd.AddCommand(serveCmd, migrateCmd, createStaffCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if portFlag != "" {
		cfg.Port = portFlag
	}
	if driverFlag != "" {
		cfg.DBDriver = driverFlag
	}
	if dsnFlag != "" {
		cfg.DBDSN = dsnFlag
	}
	return cfg, nil
}

// bootstrap loads config, builds the logger and opens a migrated database.
func bootstrap() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := config.NewLogger(cfg, os.Stdout)

	db, err := config.OpenDB(cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := config.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}
	log.WithField("driver", cfg.DBDriver).Info("database connected and migrated")
	return cfg, log, db, nil
}
