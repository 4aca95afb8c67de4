package initializers

import (
	log "github.com/sirupsen/logrus"
	"hr-agent-backend/config"
	"hr-agent-backend/db"
	"hr-agent-backend/lib/notify"
	notifylogstore "hr-agent-backend/lib/notify/store"
	"hr-agent-backend/lib/smtp"
)

func InitSmtp() {
	cfg := config.Conf.Smtp
	if cfg.User == "" || cfg.Password == "" {
		log.Warn("SENDER_EMAIL or SENDER_APP_PASSWORD is not set, emails will fail with auth errors")
	}
	smtp.Connect(cfg.User, cfg.Password, cfg.Host, cfg.Port, *cfg.TLSEnabled)

	var logStore notifylogstore.Provider
	if db.DB != nil {
		logStore = notifylogstore.NewInstance(db.DB)
	}
	notify.NewHandler(smtp.Instance, logStore)
}
