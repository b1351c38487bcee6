/*

  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved

  Licensed under the Apache License, Version 2.0 (the "License");
  you may not use this file except in compliance with the License.
  You may obtain a copy of the License at

      http://www.apache.org/licenses/LICENSE-2.0

  Unless required by applicable law or agreed to in writing, software
  distributed under the License is distributed on an "AS IS" BASIS,
  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
  See the License for the specific language governing permissions and
  limitations under the License.

*/

// Package service is HTTP front-end of identifier generators. The server owns
// generator instances for the lifetime of the process, requests share them.
package service

import (
	"context"
	"net/http"
	"time"

	"github.com/fogfish/idable"
	"github.com/fogfish/idable/internal/config"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Server that backs the daemon.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	ids    idable.Generator
	layout idable.Layout
	seq    *idable.Seq

	router     *gin.Engine
	httpServer *http.Server
	startTime  time.Time
}

// NewServer creates a new server.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg.Logger == nil {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		cfg.Logger = logger
	}

	ids, layout, err := cfg.NewGenerator()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		logger:    cfg.Logger,
		ids:       ids,
		layout:    layout,
		seq:       idable.NewSeq(),
		startTime: time.Now(),
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))
	router.Use(requestID())

	s.RegisterAPIV1Restful(router)
	s.router = router

	s.httpServer = &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: router,
	}

	s.logger.Info("generator ready",
		zap.String("mode", cfg.Mode),
		zap.Uint64("epoch", layout.Epoch),
		zap.Uint8("sequenceBits", layout.SequenceBits),
	)

	return s, nil
}

// Handler exposes HTTP routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens for HTTP clients until Exit.
func (s *Server) Start() error {
	s.logger.Info("HTTPServer listening", zap.String("addr", s.cfg.HTTPAddress))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("HTTPServer closed unexpectedly", zap.Error(err))
		return errors.WithStack(err)
	}

	s.logger.Info("HTTPServer closing", zap.String("addr", s.cfg.HTTPAddress))
	return nil
}

// Exit terminates the server, waits for in-flight requests.
func (s *Server) Exit() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTPServer shutdown", zap.Error(err))
	}

	s.logger.Info("server exited",
		zap.Duration("uptime", time.Since(s.startTime)),
	)
}
