package dbmodels

type AiLog struct {
	BaseModel
	Provider    string `gorm:"type:varchar(255);index"`
	Prompt      string `gorm:"type:text"`
	Answer      string `gorm:"type:text"`
	Error       string `gorm:"type:text"`
	DurationSec float64
}
