package initializers

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"hr-agent-backend/config"
	"hr-agent-backend/fiberlog"
)

func formatter(format string) log.Formatter {
	if strings.EqualFold(format, "text") {
		return &log.TextFormatter{FullTimestamp: true}
	}
	return &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
}

func parseLevel(value string, fallback log.Level) log.Level {
	level, err := log.ParseLevel(value)
	if err != nil {
		return fallback
	}
	return level
}

// InitLogger configures the global logger and returns the request logger config for the API.
func InitLogger() *fiberlog.Config {
	conf := config.Conf.Log
	log.SetFormatter(formatter(conf.Format))
	log.SetLevel(parseLevel(conf.Level, log.InfoLevel))

	requests := log.New()
	requests.SetFormatter(formatter(conf.Format))
	requests.SetLevel(parseLevel(conf.RequestLevel, log.DebugLevel))
	return &fiberlog.Config{
		Logger: requests,
		Tags: []string{
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagQuery,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagBody,
			fiberlog.TagResBody,
			fiberlog.RequestID,
		},
		SkipPaths:   []string{"/api/v1/ws/"},
		MaxBodySize: conf.BodySize,
	}
}
