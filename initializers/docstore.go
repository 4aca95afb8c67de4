package initializers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"hr-agent-backend/config"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
)

func InitDocStore(ctx context.Context) {
	cfg := config.Conf.DocStore
	if cfg.Driver == "memory" {
		log.Warn("document store runs in memory, data is lost on restart")
		docstore.Instance = memstore.New()
		return
	}
	store, err := docstore.ConnectMongo(ctx, cfg.URL, cfg.Name, time.Duration(cfg.ConnectTimeoutSec)*time.Second)
	if err != nil {
		panic(err.Error())
	}
	docstore.Instance = store
}
