package storage

import (
	"context"
	"fmt"
	"io"

	"rag-console-backend/config"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

type OSSStore struct {
	client *oss.Client
	bucket string
}

func NewOSSStore(cfg *config.OSSConfig) *OSSStore {
	ossCfg := &oss.Config{
		Region: oss.Ptr(cfg.Region),
		CredentialsProvider: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
		),
	}
	return &OSSStore{
		client: oss.NewClient(ossCfg),
		bucket: cfg.BucketName,
	}
}

func (s *OSSStore) Put(ctx context.Context, objectName string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(objectName),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to put object to oss: %w", err)
	}
	return nil
}

func (s *OSSStore) Get(ctx context.Context, objectName string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(objectName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from oss: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

func (s *OSSStore) Delete(ctx context.Context, objectName string) error {
	_, err := s.client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(objectName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from oss: %w", err)
	}
	return nil
}
