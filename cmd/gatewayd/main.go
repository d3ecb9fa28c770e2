// gatewayd runs the gateway side of the ephemeral peer exchange: an in-tunnel
// config service that answers negotiation requests from connected clients.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/yago-123/wg-rekey/pkg/exchange/server"
	"github.com/yago-123/wg-rekey/pkg/exchange/store"
)

const ShutdownTimeout = 5 * time.Second

func main() {
	logger := logrus.New()

	v := viper.New()
	v.SetDefault("listen_addr", ":1337")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("WG_REKEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gatewayd")
	v.AddConfigPath("/etc/wg-rekey")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Fatalf("failed to read config: %v", err)
		}
	}

	level, err := logrus.ParseLevel(v.GetString("log_level"))
	if err != nil {
		logger.Fatalf("invalid log level %q: %v", v.GetString("log_level"), err)
	}
	logger.SetLevel(level)

	srv := server.NewGateway(store.NewMemoryStore(), logger)

	addr := v.GetString("listen_addr")
	if err := srv.Start(addr); err != nil {
		logger.Fatalf("failed to start gateway server: %v", err)
	}
	logger.Infof("gateway config service listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infof("received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
