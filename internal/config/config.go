// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitConnection        `yaml:"rabbit_connection"`
	SMTPConnection          `yaml:"smtp_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// RabbitConnection структура для настройки подключения к RabbitMQ
type RabbitConnection struct {
	AddressRabbit string        `yaml:"addressrabbit"`
	RetriesRabbit int           `yaml:"retries" env-default:"5"`
	DelayRabbit   time.Duration `yaml:"delay" env-default:"3s"`
}

// SMTPConnection структура для настройки SMTP-транспорта воркера напоминаний
type SMTPConnection struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
