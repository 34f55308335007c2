package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ImageService 商品图片存储
type ImageService struct {
	minioClient *minio.Client
	bucketName  string
}

func NewImageService(minioClient *minio.Client, bucketName string) *ImageService {
	return &ImageService{minioClient: minioClient, bucketName: bucketName}
}

// Upload 上传商品图片，返回对象key
func (s *ImageService) Upload(ctx context.Context, companyID string, reader io.Reader, fileName string, fileSize int64, contentType string) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("storage not configured")
	}

	objectName := fmt.Sprintf("products/%s/%s/%s%s", companyID, time.Now().Format("2006/01"), uuid.New().String()[:8], filepath.Ext(fileName))

	_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return objectName, nil
}

// PresignedURL 生成图片的临时访问地址
func (s *ImageService) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("storage not configured")
	}

	u, err := s.minioClient.PresignedGetObject(ctx, s.bucketName, objectName, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign image: %w", err)
	}
	return u.String(), nil
}

// Delete 删除图片对象
func (s *ImageService) Delete(ctx context.Context, objectName string) error {
	if s.minioClient == nil {
		return fmt.Errorf("storage not configured")
	}
	return s.minioClient.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{})
}
