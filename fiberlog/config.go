package fiberlog

import "github.com/sirupsen/logrus"

// Config is config for middleware
type Config struct {
	// Logger defaults to the logrus standard logger.
	Logger *logrus.Logger
	Tags   []string
	// SkipPaths are matched as prefixes of the request path.
	SkipPaths []string
	// MaxBodySize clips the logged request and response bodies, 0 keeps the default.
	MaxBodySize int
}

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
	MaxBodySize: defaultBodySize,
}

func (c Config) bodySize() int {
	if c.MaxBodySize <= 0 {
		return defaultBodySize
	}
	return c.MaxBodySize
}
