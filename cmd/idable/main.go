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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fogfish/idable/internal/config"
	"github.com/fogfish/idable/internal/service"
	"github.com/fogfish/idable/internal/tracing"
	"github.com/judwhite/go-svc/svc"
	"go.uber.org/zap"
)

type program struct {
	once   sync.Once
	cfg    *config.Config
	server *service.Server
}

func main() {
	prg := &program{}
	if err := svc.Run(prg, syscall.SIGINT, syscall.SIGTERM); err != nil {
		log.Fatalf("%s", err)
	}
}

func (p *program) Init(env svc.Environment) error {
	if env.IsWindowsService() {
		dir := filepath.Dir(os.Args[0])
		return os.Chdir(dir)
	}
	return nil
}

func (p *program) Start() error {
	cfg := config.NewConfig()

	flagSet := config.FlagSet("idable", cfg)
	_ = flagSet.Parse(os.Args[1:])

	if flagSet.Lookup("version").Value.(flag.Getter).Get().(bool) {
		fmt.Printf("idable %s\n", config.Version)
		os.Exit(0)
	}

	if err := config.Load(cfg, flagSet); err != nil {
		log.Fatalf("failed to load config - %s", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("failed to create logger - %s", err)
	}
	cfg.Logger = logger

	if cfg.Tracing {
		if err := tracing.Init("idable", config.Version, cfg.TraceFile); err != nil {
			logger.Fatal("failed to init tracing", zap.Error(err))
		}
	}

	server, err := service.NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to instantiate idable", zap.Error(err))
	}
	p.cfg = cfg
	p.server = server

	go func() {
		if err := p.server.Start(); err != nil {
			p.Stop()
			os.Exit(1)
		}
	}()

	return nil
}

func (p *program) Stop() error {
	p.once.Do(func() {
		if p.server != nil {
			p.server.Exit()
		}
		if p.cfg != nil && p.cfg.Tracing {
			if err := tracing.Shutdown(context.Background()); err != nil {
				p.cfg.Logger.Warn("tracing shutdown", zap.Error(err))
			}
		}
		if p.cfg != nil {
			_ = p.cfg.Logger.Sync()
		}
	})
	return nil
}
