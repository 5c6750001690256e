// Package http 提供HTTP服务器功能
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Addr             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MaxBodyBytes     int64
	PredictFormOnGet bool
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:             "0.0.0.0:8080",
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		MaxBodyBytes:     64 << 10,
		PredictFormOnGet: true,
	}
}

// NewServer 创建HTTP服务器
func NewServer(config ServerConfig, predictor Predictor, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler, err := NewHandler(predictor, logger, config.PredictFormOnGet)
	if err != nil {
		return nil, err
	}

	return &Server{
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      NewRouter(handler, config, logger),
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  120 * time.Second,
		},
		config: config,
		logger: logger,
	}, nil
}

// NewRouter 注册路由并包装中间件链
func NewRouter(handler *Handler, config ServerConfig, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterHandlers(mux, handler)

	chain := Chain(
		RecoveryMiddleware(logger),                 // 1. 恢复中间件（最先执行，捕获panic）
		LoggerMiddleware(logger),                   // 2. 日志中间件
		SecurityHeadersMiddleware,                  // 3. 安全头中间件
		RequestSizeMiddleware(config.MaxBodyBytes), // 4. 请求大小限制
	)
	return chain(mux)
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop 停止服务器
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
