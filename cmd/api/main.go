package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/wa-otp-auth/internal/application/challenge"
	"github.com/wa-otp-auth/internal/config"
	"github.com/wa-otp-auth/internal/infrastructure/cognito"
	"github.com/wa-otp-auth/internal/infrastructure/dynamo"
	"github.com/wa-otp-auth/internal/infrastructure/messaging"
	transporthttp "github.com/wa-otp-auth/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	directory := cognito.NewDirectory(cognito.NewClient(cfg))

	var sender messaging.Sender
	switch cfg.OTPChannel {
	case config.ChannelSMS:
		s, err := messaging.NewSNSSender(cfg)
		if err != nil {
			log.Fatalf("sns sender: %v", err)
		}
		sender = s
	default:
		sender = messaging.NewWhatsAppSender(cfg)
	}

	// Decision audit log (disabled when no table is configured).
	var decisionLog challenge.DecisionLog
	if cfg.DecisionTable != "" {
		dynamoClient := dynamo.NewClient(cfg)
		dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DecisionTable)
		decisionLog = dynamo.NewDecisionRepo(dynamoClient, cfg.DecisionTable)
	}

	deps := &transporthttp.Deps{
		Directory:   directory,
		Sender:      sender,
		DecisionLog: decisionLog,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, channel=%s)", cfg.AppPort, cfg.AppEnv, cfg.OTPChannel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
