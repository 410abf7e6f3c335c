package main

import (
	"os"
	"runtime"

	"github.com/jazz-engine/jazz/internal/config"
	"github.com/jazz-engine/jazz/internal/engine"
	"github.com/sirupsen/logrus"
)

const defaultName = "Jazz"

func init() {
	// SDL and the Vulkan surface must stay on the main OS thread.
	runtime.LockOSThread()
}

func newLogger(cfg config.Log) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(cfg.Level)
	if cfg.Format == config.FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func main() {
	name := defaultName
	if len(os.Args) > 1 && os.Args[1] != "" {
		name = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("%+v", err)
	}
	logger := newLogger(cfg.Log)

	e, err := engine.New(name, cfg, logger)
	if err != nil {
		logger.Fatalf("%+v", err)
	}

	err = e.Run()
	e.Close()
	if err != nil {
		logger.Fatalf("%+v", err)
	}
}
