package service

import (
	"github.com/ledskov/openwall/internal/config"
	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/store"
)

type Services struct {
	AuthService    AuthService
	UserService    UserService
	MessageService MessageService
}

func NewServices(storages store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, cfg.Auth, logger),
		UserService:    NewUserService(storages.UserRepository, logger),
		MessageService: NewMessageService(storages.MessageRepository, storages.UserRepository, logger),
	}
}
