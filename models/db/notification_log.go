package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/lib/pq"
)

// NotificationLog is one fan-out: a message rendered once and sent to each recipient.
type NotificationLog struct {
	BaseModel
	Workflow   string         `gorm:"type:varchar(64);index"`
	Step       string         `gorm:"type:varchar(64)"`
	Subject    string         `gorm:"type:varchar(512)"`
	Recipients pq.StringArray `gorm:"type:text[]"`
	Delivered  pq.StringArray `gorm:"type:text[]"`
	Failures   DeliveryErrors `gorm:"type:jsonb"`
}

// DeliveryErrors maps a recipient to the reason its message was not sent.
type DeliveryErrors map[string]string

func (d DeliveryErrors) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	data, err := json.Marshal(d)
	return string(data), err
}

func (d *DeliveryErrors) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		*d = DeliveryErrors{}
		return nil
	}
	return json.Unmarshal(data, d)
}
