package commands

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err == nil {
			defer sqlDB.Close()
		}
		log.Info("migration complete")
		return nil
	},
}
