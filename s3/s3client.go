package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"hr-agent-backend/config"
)

// NewClient connects to the configured endpoint and makes sure the bucket exists.
func NewClient(ctx context.Context) (*minio.Client, error) {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err = makeBucket(ctx, minioClient, config.Conf.S3.BucketName); err != nil {
		return nil, err
	}
	return minioClient, nil
}

func makeBucket(ctx context.Context, minioClient *minio.Client, bucketName string) error {
	location := "us-east-1"
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}
