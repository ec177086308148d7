package handler

import (
	"github.com/ledskov/openwall/internal/config"
	"github.com/ledskov/openwall/internal/handler/http"
	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, logger),
	}, nil
}
