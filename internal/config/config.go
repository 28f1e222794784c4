package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultAPIURL = "http://localhost:5000/api"

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	API struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"api"`

	Session struct {
		// Store is one of memory, file, redis, postgres
		Store                string        `mapstructure:"store"`
		FilePath             string        `mapstructure:"file_path"`
		CookieName           string        `mapstructure:"cookie_name"`
		Secret               string        `mapstructure:"secret"`
		EncryptionKey        string        `mapstructure:"encryption_key"`
		ProfileTTL           time.Duration `mapstructure:"profile_ttl"`
		LogoutOnUnauthorized bool          `mapstructure:"logout_on_unauthorized"`
	} `mapstructure:"session"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	Reports struct {
		Archive struct {
			Enabled   bool   `mapstructure:"enabled"`
			Endpoint  string `mapstructure:"endpoint"`
			Region    string `mapstructure:"region"`
			Bucket    string `mapstructure:"bucket"`
			AccessKey string `mapstructure:"access_key"`
			SecretKey string `mapstructure:"secret_key"`
		} `mapstructure:"archive"`
	} `mapstructure:"reports"`

	KeepAlive struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"keepalive"`

	// Business holds the constants shown on the settings page and used by
	// the client-side order guards. The backend stays authoritative.
	Business struct {
		RestaurantPrice float64 `mapstructure:"restaurant_price"`
		IndividualPrice float64 `mapstructure:"individual_price"`
		BagCost         float64 `mapstructure:"bag_cost"`
		BagWeightKg     float64 `mapstructure:"bag_weight_kg"`
		MinOrderKg      float64 `mapstructure:"min_order_kg"`
		OrderStepKg     float64 `mapstructure:"order_step_kg"`
	} `mapstructure:"business"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(configFile())

	// Auto bind environment variables
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	applyEnv(&cfg)

	if cfg.Session.Secret == "" {
		log.Printf("[Config] SESSION_SECRET not set, profile cookies will not survive a restart")
	}

	return &cfg
}

func configFile() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return "configs/config.yaml"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization"})

	v.SetDefault("api.base_url", DefaultAPIURL)
	v.SetDefault("api.timeout", 15*time.Second)

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.file_path", "data/sessions.json")
	v.SetDefault("session.cookie_name", "ricepro_profile")
	v.SetDefault("session.profile_ttl", 30*24*time.Hour)
	v.SetDefault("session.logout_on_unauthorized", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "ricepro_web")

	v.SetDefault("reports.archive.region", "auto")
	v.SetDefault("keepalive.interval", 5*time.Minute)

	v.SetDefault("business.restaurant_price", 180)
	v.SetDefault("business.individual_price", 200)
	v.SetDefault("business.bag_cost", 9000)
	v.SetDefault("business.bag_weight_kg", 60)
	v.SetDefault("business.min_order_kg", 5)
	v.SetDefault("business.order_step_kg", 5)
}

// applyEnv overrides config values from the plain environment names used in deployment
func applyEnv(cfg *Config) {
	if url := os.Getenv("API_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if store := os.Getenv("SESSION_STORE"); store != "" {
		cfg.Session.Store = store
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.Session.Secret = secret
	}
	if key := os.Getenv("SESSION_ENCRYPTION_KEY"); key != "" {
		cfg.Session.EncryptionKey = key
	}

	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	if host := os.Getenv("REDIS_SERVICE_HOST"); host != "" {
		port := os.Getenv("REDIS_SERVICE_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.Redis.Addr = host + ":" + port
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.Reports.Archive.Bucket = bucket
		cfg.Reports.Archive.Enabled = true
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.Reports.Archive.Endpoint = endpoint
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		cfg.Reports.Archive.AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_KEY"); secret != "" {
		cfg.Reports.Archive.SecretKey = secret
	}
}
