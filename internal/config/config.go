package config

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port            string  `mapstructure:"port"`
		Env             string  `mapstructure:"env"`
		MaxPictureBytes int64   `mapstructure:"max_picture_bytes"`
		RateLimitRPS    float64 `mapstructure:"rate_limit_rps"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers      []string `mapstructure:"brokers"`
		CleanupGroup string   `mapstructure:"cleanup_group"`
	} `mapstructure:"kafka"`
	Storage struct {
		Endpoint   string        `mapstructure:"endpoint"`
		AccessKey  string        `mapstructure:"access_key"`
		SecretKey  string        `mapstructure:"secret_key"`
		UseSSL     bool          `mapstructure:"use_ssl"`
		Region     string        `mapstructure:"region"`
		PresignTTL time.Duration `mapstructure:"presign_ttl"`
	} `mapstructure:"storage"`
	Lock struct {
		TTL  time.Duration `mapstructure:"ttl"`
		Wait time.Duration `mapstructure:"wait"`
	} `mapstructure:"lock"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

// LoadConfig reads config.yaml and .env from path, then lets environment
// variables override both.
func LoadConfig(path string) (cfg Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.max_picture_bytes", "MAX_PICTURE_BYTES")
	v.BindEnv("app.rate_limit_rps", "RATE_LIMIT_RPS")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.cleanup_group", "KAFKA_CLEANUP_GROUP")
	v.BindEnv("lock.ttl", "LOCK_TTL")
	v.BindEnv("lock.wait", "LOCK_WAIT")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("jaeger.otlp_endpoint", "JAEGER_OTLP_ENDPOINT")

	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.use_ssl", "STORAGE_USE_SSL")
	v.BindEnv("storage.region", "STORAGE_REGION")
	v.BindEnv("storage.presign_ttl", "STORAGE_PRESIGN_TTL")

	err = v.Unmarshal(&cfg)
	if err != nil {
		return
	}

	// KAFKA_BROKERS arrives as one comma separated string from the env.
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.max_picture_bytes", 10<<20)
	v.SetDefault("app.rate_limit_rps", 10)
	v.SetDefault("kafka.cleanup_group", "bucket-cleanup-group")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.presign_ttl", 15*time.Minute)
	v.SetDefault("lock.ttl", 30*time.Second)
	v.SetDefault("lock.wait", 10*time.Second)
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
}
