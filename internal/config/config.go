package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App         App         `yaml:"app"`
	HTTP        HTTP        `yaml:"http"`
	Log         Log         `yaml:"log"`
	Postgres    Postgres    `yaml:"postgres"`
	Redis       Redis       `yaml:"redis"`
	Kafka       Kafka       `yaml:"kafka"`
	Pricing     Pricing     `yaml:"pricing"`
	FoodPricing FoodPricing `yaml:"food_pricing"`
	Payment     Payment     `yaml:"payment"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"ecovoyage-api"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
}

type HTTP struct {
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"user"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-default:"ecovoyage_db"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"booking-events"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"booking-consumer-group-1"`
}

// Pricing is the fee schedule applied to trip and smart-travel checkouts.
// The food flow historically carries neither tax nor the eco fee, so it gets
// its own section instead of silently inheriting these values.
type Pricing struct {
	Currency          string  `yaml:"currency" env:"PRICING_CURRENCY" env-default:"INR"`
	TaxRate           float64 `yaml:"tax_rate" env:"PRICING_TAX_RATE" env-default:"0.18"`
	EcoFee            float64 `yaml:"eco_fee" env:"PRICING_ECO_FEE" env-default:"50"`
	DiscountThreshold float64 `yaml:"discount_threshold" env:"PRICING_DISCOUNT_THRESHOLD" env-default:"5000"`
	DiscountAmount    float64 `yaml:"discount_amount" env:"PRICING_DISCOUNT_AMOUNT" env-default:"500"`
}

type FoodPricing struct {
	Currency          string  `yaml:"currency" env:"FOOD_PRICING_CURRENCY" env-default:"INR"`
	TaxRate           float64 `yaml:"tax_rate" env:"FOOD_PRICING_TAX_RATE" env-default:"0"`
	EcoFee            float64 `yaml:"eco_fee" env:"FOOD_PRICING_ECO_FEE" env-default:"0"`
	DiscountThreshold float64 `yaml:"discount_threshold" env:"FOOD_PRICING_DISCOUNT_THRESHOLD" env-default:"0"`
	DiscountAmount    float64 `yaml:"discount_amount" env:"FOOD_PRICING_DISCOUNT_AMOUNT" env-default:"0"`
}

type Payment struct {
	Delay       time.Duration `yaml:"delay" env:"PAYMENT_DELAY" env-default:"2500ms"`
	Timeout     time.Duration `yaml:"timeout" env:"PAYMENT_TIMEOUT" env-default:"10s"`
	DeclineRate int           `yaml:"decline_rate" env:"PAYMENT_DECLINE_RATE" env-default:"5"`
}

func New() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		// Allow env vars to override config file
		cleanenv.ReadEnv(cfg)
	}

	return cfg, nil
}
