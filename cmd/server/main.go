package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pulsechat/pulse-backend/internal/channel"
	"github.com/pulsechat/pulse-backend/internal/config"
	"github.com/pulsechat/pulse-backend/internal/db"
	"github.com/pulsechat/pulse-backend/internal/httpapi"
	"github.com/pulsechat/pulse-backend/internal/message"
	"github.com/pulsechat/pulse-backend/internal/store/rabbitmq"
	"github.com/pulsechat/pulse-backend/internal/store/redisstore"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gdb, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	// exactly one general channel
	if err := channel.NewRepo(gdb).EnsureGeneral(context.Background(), "general"); err != nil {
		log.Fatalf("seed general channel: %v", err)
	}

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	// event fanout is best-effort; the API serves without a broker
	var events message.EventPublisher
	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Printf("rabbit dial failed, events disabled: %v", err)
	} else {
		defer pub.Close()
		events = pub
	}

	router := httpapi.NewRouter(gdb, cfg, rds, events)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server listening addr=%s db=%s policy=%s", cfg.ServerAddr, cfg.DBDriver, cfg.ChannelNamePolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
