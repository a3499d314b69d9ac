// Package storetest opens migrated in-memory stores for tests.
package storetest

import (
	"io"
	"strings"
	"testing"

	"sandwich-shop-api/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Logger returns a logger that discards output.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Open returns a fresh in-memory SQLite store named after the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := config.OpenDB(config.DriverSQLite, "file:"+name+"?mode=memory&cache=shared", Logger())
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
