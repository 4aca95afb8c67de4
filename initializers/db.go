package initializers

import (
	log "github.com/sirupsen/logrus"
	"hr-agent-backend/config"
	"hr-agent-backend/db"
)

// InitDBConnection opens Postgres when it is enabled. The audit tables are optional,
// so a disabled database leaves db.DB nil and the stores are skipped.
func InitDBConnection() {
	conf := config.Conf.Database
	if !*conf.Enabled {
		log.Info("relational database disabled, audit logs are not persisted")
		return
	}
	err := db.Connect(db.Options{
		Host:         conf.Host,
		Port:         conf.Port,
		Name:         conf.Name,
		User:         conf.User,
		Password:     conf.Password,
		Debug:        *conf.DebugMode,
		Migrate:      *conf.MigrateOnStart,
		MaxOpenConns: conf.MaxOpenConns,
	})
	if err != nil {
		panic(err.Error())
	}
}
