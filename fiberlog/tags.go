package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagStatus  = "status"
	TagLatency = "latency"
	TagMethod  = "method"
	TagPath    = "path"
	TagIP      = "ip"
	TagBody    = "body"
	TagResBody = "resBody"
	TagQuery   = "query"
	RequestID  = "requestId"

	defaultBodySize = 2048
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag reads one log field from the finished request.
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func clip(b []byte, limit int) string {
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	limit := cfg.bodySize()
	all := map[string]FuncTag{
		TagPid:     func(_ *fiber.Ctx, d *data) interface{} { return d.pid },
		TagStatus:  func(c *fiber.Ctx, _ *data) interface{} { return c.Response().StatusCode() },
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} { return d.end.Sub(d.start).String() },
		TagMethod:  func(c *fiber.Ctx, _ *data) interface{} { return c.Method() },
		TagPath:    func(c *fiber.Ctx, _ *data) interface{} { return c.Path() },
		TagIP:      func(c *fiber.Ctx, _ *data) interface{} { return c.IP() },
		TagQuery:   func(c *fiber.Ctx, _ *data) interface{} { return string(c.Request().URI().QueryString()) },
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			if c.Is("multipart") {
				return "multipart"
			}
			return clip(c.Body(), limit)
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			if ct := string(c.Response().Header.ContentType()); ct != fiber.MIMEApplicationJSON && ct != fiber.MIMEApplicationJSONCharsetUTF8 {
				return ""
			}
			return clip(c.Response().Body(), limit)
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
				return id
			}
			return c.Get(fiber.HeaderXRequestID)
		},
	}
	out := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			out[tag] = ft
		}
	}
	return out
}
