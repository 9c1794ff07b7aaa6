package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/furkanc/voicecloning-backend/internal/config"
	"github.com/furkanc/voicecloning-backend/internal/jobs/repository"
	"github.com/furkanc/voicecloning-backend/internal/worker"
	"github.com/furkanc/voicecloning-backend/pkg/db/aws"
	clientRedis "github.com/furkanc/voicecloning-backend/pkg/db/redis"
	"github.com/furkanc/voicecloning-backend/pkg/logger"
)

func main() {
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	redisClient, err := clientRedis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	s3Client, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	dispatcher := repository.NewRedisDispatcher(redisClient, cfg)
	awsRepo := repository.NewAwsRepository(s3Client, presignClient, cfg, appLogger)
	apiClient := worker.NewAPIClient(cfg.Worker.APIBaseURL)
	synth := worker.NewCommandSynthesizer(cfg, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down worker")
		cancel()
	}()

	w := worker.NewWorker(cfg, appLogger, dispatcher, awsRepo, apiClient, synth)
	w.Start(ctx)
	w.Wait()
}
