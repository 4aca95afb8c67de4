package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"
	"hr-agent-backend/config"
	"hr-agent-backend/db"
	filestorage "hr-agent-backend/lib/file-storage"
	filesdbstorage "hr-agent-backend/lib/file-storage/storage"
	s3client "hr-agent-backend/s3"
)

// InitS3 sets up object storage for resumes and document PDFs. Without an endpoint the
// file storage answers ErrNotConfigured and callers keep working without files.
func InitS3(ctx context.Context) {
	var meta filesdbstorage.Provider
	if db.DB != nil {
		meta = filesdbstorage.NewInstance(db.DB)
	}
	if config.Conf.S3.Endpoint == "" {
		log.Info("object storage disabled, S3_ENDPOINT is not set")
		filestorage.NewInstance(nil, "", meta)
		return
	}
	client, err := s3client.NewClient(ctx)
	if err != nil {
		log.WithError(err).Error("object storage not available")
		filestorage.NewInstance(nil, "", meta)
		return
	}
	filestorage.NewInstance(client, config.Conf.S3.BucketName, meta)
	log.Info("object storage connected")
}
