package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Job      JobConfig      `mapstructure:"job"`
}

// AppConfig http server settings
type AppConfig struct {
	Name string     `mapstructure:"name"`
	Mode string     `mapstructure:"mode"`
	Port int        `mapstructure:"port"`
	Cors CorsConfig `mapstructure:"cors"`
}

// CorsConfig cross-origin settings
type CorsConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposedHeaders   []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// JWTConfig token settings
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret_key"`
	ExpireHours int    `mapstructure:"expire_hours"`
	Issuer      string `mapstructure:"issuer"`
	// Blacklist selects the revoked-token store: memory or redis
	Blacklist string `mapstructure:"blacklist"`
}

// DatabaseConfig storage settings
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	Database       string `mapstructure:"database"`
	Charset        string `mapstructure:"charset"`
	SSLMode        string `mapstructure:"sslmode"`
	Path           string `mapstructure:"path"`
	MaxIdleConns   int    `mapstructure:"max_idle_conns"`
	MaxOpenConns   int    `mapstructure:"max_open_conns"`
	LogLevel       string `mapstructure:"log_level"`
	ConnectRetries uint   `mapstructure:"connect_retries"`
}

// DSN builds the connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "postgres":
		sslmode := c.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
			c.Host, c.Username, c.Password, c.Database, c.Port, sslmode)
	case "sqlite":
		if c.Path == "" {
			return "restaurant.db"
		}
		return c.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
	}
}

// RedisConfig redis settings
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// Addr redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig logger settings
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// CacheConfig restaurant read-cache settings
type CacheConfig struct {
	RestaurantTTLSeconds int     `mapstructure:"restaurant_ttl_seconds"`
	BloomCapacity        uint    `mapstructure:"bloom_capacity"`
	BloomFalsePositive   float64 `mapstructure:"bloom_false_positive"`
}

// JobConfig background job settings
type JobConfig struct {
	NotificationCleanupSpec    string `mapstructure:"notification_cleanup_spec"`
	NotificationRetentionDays  int    `mapstructure:"notification_retention_days"`
	DisableNotificationCleanup bool   `mapstructure:"disable_notification_cleanup"`
}

var (
	// GlobalConfig loaded configuration
	GlobalConfig *Config
	mu           sync.RWMutex
	listeners    []func(*Config)
)

// Default returns a configuration usable without a config file
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "restaurant-api",
			Mode: "debug",
			Port: 8000,
			Cors: CorsConfig{
				AllowOrigins: []string{"*"},
				AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			},
		},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Path:           "restaurant.db",
			Charset:        "utf8mb4",
			MaxIdleConns:   10,
			MaxOpenConns:   100,
			LogLevel:       "warn",
			ConnectRetries: 3,
		},
		Redis: RedisConfig{Host: "127.0.0.1", Port: 6379, PoolSize: 10},
		Log:   LogConfig{Level: "info", Stdout: true, MaxSize: 100, MaxAge: 30, MaxBackups: 7},
		JWT: JWTConfig{
			SecretKey:   "change-me",
			ExpireHours: 24,
			Issuer:      "restaurant-api",
			Blacklist:   "memory",
		},
		Cache: CacheConfig{RestaurantTTLSeconds: 300, BloomCapacity: 100000, BloomFalsePositive: 0.01},
		Job: JobConfig{
			NotificationCleanupSpec:   "0 0 3 * * *",
			NotificationRetentionDays: 30,
		},
	}
}

// Init loads config.yaml from configPath, with .env and environment overrides
func Init(configPath string) error {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return err
	}

	mu.Lock()
	GlobalConfig = cfg
	mu.Unlock()

	v.OnConfigChange(func(e fsnotify.Event) {
		reloaded, err := unmarshal(v)
		if err != nil {
			return
		}
		mu.Lock()
		GlobalConfig = reloaded
		fns := append([]func(*Config){}, listeners...)
		mu.Unlock()
		for _, fn := range fns {
			fn(reloaded)
		}
	})
	v.WatchConfig()
	return nil
}

// OnChange registers a callback run after the config file is reloaded
func OnChange(fn func(*Config)) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// setDefaults seeds viper with Default() so partial files still load
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.mode", d.App.Mode)
	v.SetDefault("app.port", d.App.Port)
	v.SetDefault("app.cors.allow_origins", d.App.Cors.AllowOrigins)
	v.SetDefault("app.cors.allow_methods", d.App.Cors.AllowMethods)
	v.SetDefault("app.cors.allow_headers", d.App.Cors.AllowHeaders)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.charset", d.Database.Charset)
	v.SetDefault("database.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.log_level", d.Database.LogLevel)
	v.SetDefault("database.connect_retries", d.Database.ConnectRetries)
	v.SetDefault("redis.host", d.Redis.Host)
	v.SetDefault("redis.port", d.Redis.Port)
	v.SetDefault("redis.pool_size", d.Redis.PoolSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.stdout", d.Log.Stdout)
	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.expire_hours", d.JWT.ExpireHours)
	v.SetDefault("jwt.issuer", d.JWT.Issuer)
	v.SetDefault("jwt.blacklist", d.JWT.Blacklist)
	v.SetDefault("cache.restaurant_ttl_seconds", d.Cache.RestaurantTTLSeconds)
	v.SetDefault("cache.bloom_capacity", d.Cache.BloomCapacity)
	v.SetDefault("cache.bloom_false_positive", d.Cache.BloomFalsePositive)
	v.SetDefault("job.notification_cleanup_spec", d.Job.NotificationCleanupSpec)
	v.SetDefault("job.notification_retention_days", d.Job.NotificationRetentionDays)
}

// GetConfig returns the loaded config, or defaults before Init
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if GlobalConfig == nil {
		return Default()
	}
	return GlobalConfig
}
