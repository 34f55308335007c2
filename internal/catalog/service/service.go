package service

import (
	"github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Services 目录服务集合
type Services struct {
	Material   *MaterialService
	OrderGroup *OrderGroupService
	Product    *ProductService
	Image      *ImageService
}

// NewServices 创建目录服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	// 初始化MinIO客户端（商品图片用；未配置时图片功能降级不可用）
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			minioClient = nil
		}
	}

	return &Services{
		Material:   NewMaterialService(repos.Material, repos.OrderGroup, rdb),
		OrderGroup: NewOrderGroupService(repos.OrderGroup),
		Product:    NewProductService(repos.Product, repos.Material),
		Image:      NewImageService(minioClient, cfg.MinIO.Bucket),
	}
}
