// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/wallet-ledger/internal/accountdelivery"
	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/accountservice"
	"github.com/go-petr/wallet-ledger/internal/entrydelivery"
	"github.com/go-petr/wallet-ledger/internal/entryrepo"
	"github.com/go-petr/wallet-ledger/internal/entryservice"
	"github.com/go-petr/wallet-ledger/internal/middleware"
	"github.com/go-petr/wallet-ledger/internal/walletdelivery"
	"github.com/go-petr/wallet-ledger/internal/walletrepo"
	"github.com/go-petr/wallet-ledger/internal/walletservice"
	"github.com/go-petr/wallet-ledger/pkg/configpkg"
	"github.com/go-petr/wallet-ledger/pkg/eventspkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	entryRepo := entryrepo.NewRepoPGS(conn)
	walletRepo := walletrepo.NewRepoPGS(conn)

	var publisher walletservice.EventPublisher = eventspkg.NewNoopPublisher()
	if len(config.KafkaBrokers) > 0 {
		topic := config.KafkaTopic
		if topic == "" {
			topic = eventspkg.TopicTransactionCompleted
		}

		publisher = eventspkg.NewKafkaPublisher(config.KafkaBrokers, topic)
	}

	accountService := accountservice.New(accountRepo)
	walletService := walletservice.New(walletRepo, publisher)
	entryService := entryservice.New(entryRepo, accountService)

	accountHandler := accountdelivery.NewHandler(accountService)
	walletHandler := walletdelivery.NewHandler(walletService)
	entryHandler := entrydelivery.NewHandler(entryService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	if config.RedisAddress != "" {
		cache := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
		engine.Use(middleware.Idempotency(cache, config.IdempotencyTTL))
	}

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.PUT("/accounts/:id", accountHandler.Update)

	engine.POST("/accounts/:id/credit", walletHandler.Credit)
	engine.POST("/accounts/:id/debit", walletHandler.Debit)
	engine.POST("/transfers", walletHandler.Transfer)

	engine.GET("/accounts/:id/entries", entryHandler.List)
	engine.GET("/entries/:id", entryHandler.Get)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
