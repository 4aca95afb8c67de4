package notifylogstore

import (
	"time"

	"github.com/pkg/errors"
	dbmodels "hr-agent-backend/models/db"
	"gorm.io/gorm"
)

type Provider interface {
	Save(rec dbmodels.NotificationLog) (string, error)
	List(workflow string, since time.Time, limit int) ([]dbmodels.NotificationLog, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(rec dbmodels.NotificationLog) (string, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return "", errors.Wrap(err, "save notification log")
	}
	return rec.ID, nil
}

func (i impl) List(workflow string, since time.Time, limit int) (list []dbmodels.NotificationLog, err error) {
	tx := i.db.Model(&dbmodels.NotificationLog{}).Where("created_at >= ?", since)
	if workflow != "" {
		tx = tx.Where("workflow = ?", workflow)
	}
	err = tx.
		Order("created_at desc").
		Limit(limit).
		Find(&list).
		Error
	return list, err
}
