package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. Unique-index violations are
// translated to gorm.ErrDuplicatedKey for every supported driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: driver == "sqlite",
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows a single writer; one connection serializes transactions.
		sqlDB.SetMaxOpenConns(1)

		if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
			logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
		}
	}

	logrus.WithField("driver", driver).Info("Database connection established")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
