package main

import (
	"context"
	"flag"

	"github.com/s-min-sys/poolbillbe/internal/config"
	"github.com/s-min-sys/poolbillbe/internal/server"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libconfig"
	"github.com/sgostarter/liblogrus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

func main() {
	var reBuild bool

	flag.BoolVar(&reBuild, "re-build", false, "rebuild statistics")
	flag.Parse()

	logger := l.NewWrapper(liblogrus.NewLogrusEx(logrus.New()))
	logger.GetLogger().SetLevel(l.LevelDebug)

	if reBuild {
		err := server.RebuildStatistics()
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("rebuild statistics failed")
		} else {
			logger.Info("rebuild statistics success")
		}

		return
	}

	var cfg config.Config
	_, _ = libconfig.Load("config.yaml", &cfg)

	cfg.ApplyDefaults()

	d, _ := yaml.Marshal(cfg)
	logger.Debug(string(d))

	server.NewServer(context.Background(), nil, &cfg, logger).Wait()
}
