package ailogstore

import (
	dbmodels "hr-agent-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Save(rec dbmodels.AiLog) (string, error)
	Recent(provider string, limit int) ([]dbmodels.AiLog, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(rec dbmodels.AiLog) (string, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return "", errors.Wrap(err, "save ai log")
	}
	return rec.ID, nil
}

// Recent returns the newest calls first, optionally for one provider.
func (i impl) Recent(provider string, limit int) (list []dbmodels.AiLog, err error) {
	tx := i.db.Model(&dbmodels.AiLog{})
	if provider != "" {
		tx = tx.Where("provider = ?", provider)
	}
	err = tx.
		Order("created_at desc").
		Limit(limit).
		Find(&list).
		Error
	return list, err
}
