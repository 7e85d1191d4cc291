package initializers

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// OpenDatabase opens a gorm connection for the given driver name.
func OpenDatabase(driver, dsn string, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

func ConnectToDB() error {
	if Config.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	logLevel := gormlogger.Silent
	if !Config.IsProduction() {
		logLevel = gormlogger.Warn
	}

	db, err := OpenDatabase(Config.DBDriver, Config.DBDSN, logLevel)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = db
	log.Info().Str("driver", Config.DBDriver).Msg("database connection established")
	return nil
}
