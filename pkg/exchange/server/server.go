package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yago-123/wg-rekey/pkg/exchange/store"
)

const (
	ServerReadTimeout  = 5 * time.Second
	ServerWriteTimeout = 5 * time.Second
	ServerIdleTimeout  = 10 * time.Second
	MaxHeaderBytes     = 1 << 20
)

// GatewayServer is the peer side of the ephemeral peer exchange: it answers
// negotiation requests and records the resulting ephemeral peers per session.
type GatewayServer struct {
	handlers   *Handler
	httpServer *http.Server
}

func NewGateway(s store.Store, logger *logrus.Logger) *GatewayServer {
	return &GatewayServer{
		handlers: NewHandler(s, logger),
	}
}

func (s *GatewayServer) Start(addr string) error {
	r := gin.Default()

	r.POST("/v1/ephemeral-peer", s.handlers.NegotiateHandler)
	r.GET("/v1/ephemeral-peer/:wg_public_key", s.handlers.LookupHandler)

	s.httpServer = &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    ServerReadTimeout,
		WriteTimeout:   ServerWriteTimeout,
		IdleTimeout:    ServerIdleTimeout,
		MaxHeaderBytes: MaxHeaderBytes,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return nil
}

func (s *GatewayServer) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Router exposes the gin handler tree without binding a listener, for tests
// and embedding.
func (s *GatewayServer) Router() http.Handler {
	r := gin.New()
	r.POST("/v1/ephemeral-peer", s.handlers.NegotiateHandler)
	r.GET("/v1/ephemeral-peer/:wg_public_key", s.handlers.LookupHandler)
	return r
}
