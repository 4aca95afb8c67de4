package db

import (
	"fmt"
	"time"

	gormlogrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB stays nil when the relational database is disabled.
var DB *gorm.DB

type Options struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Debug    bool
	Migrate  bool
	// MaxOpenConns is left to the driver when 0.
	MaxOpenConns int
}

func (o Options) dsn() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s",
		o.Host, o.Port, o.User, o.Name, o.Password)
}

func Connect(opts Options) error {
	if DB != nil {
		return nil
	}
	var gormLogger logger.Interface = gormlogrus.New()
	if opts.Debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}
	conn, err := gorm.Open(postgres.Open(opts.dsn()), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return errors.Wrap(err, "connect to postgres")
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return errors.Wrap(err, "postgres pool")
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	DB = conn
	if opts.Migrate {
		if err = AutoMigrateDB(); err != nil {
			return err
		}
	}
	log.WithField("host", opts.Host).WithField("database", opts.Name).Info("connected to postgres")
	return nil
}

func PingDB() error {
	if DB == nil {
		return errors.New("postgres is not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	DB = nil
}
