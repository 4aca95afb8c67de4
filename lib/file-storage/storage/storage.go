package filesdbstorage

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "hr-agent-backend/models/db"
)

type Provider interface {
	SaveFile(rec dbmodels.FileStorage) (id string, err error)
	GetFileListByType(ownerRef string, fileType dbmodels.FileType) (list []dbmodels.FileStorage, err error)
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetFileListByType(ownerRef string, fileType dbmodels.FileType) (list []dbmodels.FileStorage, err error) {
	tx := i.db.Model(&dbmodels.FileStorage{}).Where("file_type = ?", fileType)
	if ownerRef != "" {
		tx = tx.Where("owner_ref = ?", ownerRef)
	}
	err = tx.Order("created_at desc").Find(&list).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) SaveFile(rec dbmodels.FileStorage) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func NewInstance(db *gorm.DB) Provider {
	return &impl{db: db}
}
