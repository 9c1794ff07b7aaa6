package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Postgres DBConfig
	Redis    RedisConfig
	S3       S3Config
	Retry    RetryConfig
	Logger   Logger
	Worker   WorkerConfig
	Synth    SynthConfig
}

type ServerConfig struct {
	AppName      string
	AppVersion   string
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type WorkerConfig struct {
	WorkerCount     int
	MaxCPUUsage     float64
	PollIntervalSec int
	JobTimeoutSec   int
	APIBaseURL      string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	JobQueueKey   string
}

type S3Config struct {
	Endpoint         string
	Region           string
	AccessKey        string
	SecretKey        string
	InputBucket      string
	OutputBucket     string
	PresignExpiryMin int
	UploadTimeoutSec int
}

// RetryConfig bounds the retry policy applied to record-store writes and
// dispatch submissions. Per-file uploads are never retried, only reported.
type RetryConfig struct {
	MaxAttempts       int
	InitialIntervalMS int
	CallTimeoutSec    int
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

// SynthConfig describes the external text-to-speech command the worker runs.
type SynthConfig struct {
	Command   string
	ModelsDir string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.Is(err, configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	log.Println(c.S3.Region, c.S3.InputBucket, c.S3.OutputBucket)
	return &c, nil
}
