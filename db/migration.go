package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "hr-agent-backend/models/db"
)

func AutoMigrateDB() error {
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.AiLog{}); err != nil {
		return errors.Wrap(err, "migrate AiLog")
	}
	if err := DB.AutoMigrate(&dbmodels.NotificationLog{}); err != nil {
		return errors.Wrap(err, "migrate NotificationLog")
	}
	if err := DB.AutoMigrate(&dbmodels.FileStorage{}); err != nil {
		return errors.Wrap(err, "migrate FileStorage")
	}
	log.Info("migrations applied")
	return nil
}
