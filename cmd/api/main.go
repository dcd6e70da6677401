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

	otpapp "github.com/harshpatel9469/medoh-v2-sub002/internal/application/otp"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/config"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/dynamo"
	jwtinfra "github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/jwt"
	s3infra "github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/s3"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/smtp"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/sns"
	transporthttp "github.com/harshpatel9469/medoh-v2-sub002/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for page documents.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	var otpStore otpapp.Store
	if cfg.OTPStoreBackend == "memory" {
		otpStore = otpapp.NewMemoryStore()
	} else {
		otpStore = dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPCodes)
	}

	deps := &transporthttp.Deps{
		OTPStore:     otpStore,
		PageRepo:     dynamo.NewPageRepo(dynamoClient, cfg.DynamoTables.PrivatePages),
		MessageRepo:  dynamo.NewMessageRepo(dynamoClient, cfg.DynamoTables.Messages),
		DocumentRepo: dynamo.NewDocumentRepo(dynamoClient, cfg.DynamoTables.Documents),
		S3Store:      s3Store,
		Mailer:       mailer,
		SMSSender:    smsSender,
		JWTProvider:  jwtProvider,
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
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
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
