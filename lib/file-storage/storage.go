package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	filesdbstorage "hr-agent-backend/lib/file-storage/storage"
	dbmodels "hr-agent-backend/models/db"
)

type Provider interface {
	// Upload stores the file and returns its object key.
	Upload(ctx context.Context, info dbmodels.UploadFileInfo, data []byte) (string, error)
	GetFile(ctx context.Context, objectKey string) ([]byte, error)
	List(ownerRef string, fileType dbmodels.FileType) ([]dbmodels.FileStorage, error)
}

var Instance Provider

var ErrNotConfigured = errors.New("object storage is not configured")

type impl struct {
	s3client *minio.Client
	bucket   string
	meta     filesdbstorage.Provider
}

// NewInstance sets Instance. meta may be nil when the relational database is disabled.
func NewInstance(s3client *minio.Client, bucket string, meta filesdbstorage.Provider) {
	Instance = &impl{
		s3client: s3client,
		bucket:   bucket,
		meta:     meta,
	}
}

func objectKey(info dbmodels.UploadFileInfo) string {
	return path.Join(string(info.FileType), uuid.NewString(), path.Base(info.FileName))
}

func (i impl) Upload(ctx context.Context, info dbmodels.UploadFileInfo, data []byte) (string, error) {
	if i.s3client == nil {
		return "", ErrNotConfigured
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := objectKey(info)
	_, err := i.s3client.PutObject(ctx, i.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}
	if i.meta != nil {
		_, err = i.meta.SaveFile(dbmodels.FileStorage{
			Name:        info.FileName,
			ObjectKey:   key,
			OwnerRef:    info.OwnerRef,
			Type:        info.FileType,
			ContentType: contentType,
			Size:        int64(len(data)),
		})
		if err != nil {
			log.WithField("object_key", key).WithError(err).Warn("file uploaded, metadata not saved")
		}
	}
	return key, nil
}

func (i impl) GetFile(ctx context.Context, objectKey string) ([]byte, error) {
	if i.s3client == nil {
		return nil, ErrNotConfigured
	}
	obj, err := i.s3client.GetObject(ctx, i.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "get object")
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("read object %s", objectKey))
	}
	return data, nil
}

func (i impl) List(ownerRef string, fileType dbmodels.FileType) ([]dbmodels.FileStorage, error) {
	if i.meta == nil {
		return nil, nil
	}
	return i.meta.GetFileListByType(ownerRef, fileType)
}
