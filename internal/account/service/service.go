package service

import (
	"github.com/chuboware/chubo/internal/account/repository"
	"github.com/chuboware/chubo/internal/config"
	"github.com/redis/go-redis/v9"
)

// Services 账户服务集合
type Services struct {
	Auth  *AuthService
	User  *UserService
	Store *StoreService
}

// NewServices 创建账户服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	return &Services{
		Auth:  NewAuthService(repos.User, repos.Company, rdb, cfg),
		User:  NewUserService(repos.User, repos.Store),
		Store: NewStoreService(repos.Store),
	}
}
