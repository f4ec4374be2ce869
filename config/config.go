package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`
	EnableSwagger      bool          `mapstructure:"enable_swagger"`

	// 数据库配置
	DBType            string `mapstructure:"db_type"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// JWT 配置
	JWTSecret         string        `mapstructure:"jwt_secret"`
	JWTExpiresIn      time.Duration `mapstructure:"jwt_expires_in"`
	JWTResetExpiresIn time.Duration `mapstructure:"jwt_reset_expires_in"`

	// 对象存储配置
	StorageType          string        `mapstructure:"storage_type"`
	StorageLocalPath     string        `mapstructure:"storage_local_path"`
	StorageTimeout       time.Duration `mapstructure:"storage_timeout"`
	MinioEndpoint        string        `mapstructure:"minio_endpoint"`
	MinioAccessKeyID     string        `mapstructure:"minio_access_key_id"`
	MinioSecretAccessKey string        `mapstructure:"minio_secret_access_key"`
	MinioBucketName      string        `mapstructure:"minio_bucket_name"`
	MinioUseSSL          bool          `mapstructure:"minio_use_ssl"`
	WebDAVEndpoint       string        `mapstructure:"webdav_endpoint"`
	WebDAVUsername       string        `mapstructure:"webdav_username"`
	WebDAVPassword       string        `mapstructure:"webdav_password"`
	WebDAVBasePath       string        `mapstructure:"webdav_base_path"`

	// 地理编码配置
	GeocoderEndpoint string        `mapstructure:"geocoder_endpoint"`
	GeocoderAPIKey   string        `mapstructure:"geocoder_api_key"`
	GeocoderTimeout  time.Duration `mapstructure:"geocoder_timeout"`
	GeocoderCacheTTL time.Duration `mapstructure:"geocoder_cache_ttl"`

	// 缓存配置
	CacheType          string `mapstructure:"cache_type"`
	CacheRedisAddr     string `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string `mapstructure:"cache_redis_password"`
	CacheRedisDB       int    `mapstructure:"cache_redis_db"`

	// 邮件配置
	SMTPHost        string        `mapstructure:"smtp_host"`
	SMTPPort        int           `mapstructure:"smtp_port"`
	SMTPUsername    string        `mapstructure:"smtp_username"`
	SMTPPassword    string        `mapstructure:"smtp_password"`
	SMTPSenderName  string        `mapstructure:"smtp_sender_name"`
	SMTPDialTimeout time.Duration `mapstructure:"smtp_dial_timeout"`

	// 上传配置
	UploadMaxSizeBytes int64  `mapstructure:"upload_max_size_bytes"`
	UploadTempDir      string `mapstructure:"upload_temp_dir"`

	// 限流配置
	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`

	// 孤儿 blob 扫描配置
	OrphanScanInterval    time.Duration `mapstructure:"orphan_scan_interval"`
	OrphanScanConcurrency int           `mapstructure:"orphan_scan_concurrency"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: .env file not found, using defaults and environment variables")
	} else {
		fmt.Fprintln(os.Stderr, "Info: Loaded configuration from .env file")
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器配置默认值
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 8080)
	viper.SetDefault("server_domain", "")
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "30s")
	viper.SetDefault("server_idle_timeout", "120s")
	viper.SetDefault("enable_swagger", false)

	// 数据库配置默认值
	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "share-places")
	viper.SetDefault("db_file_path", "")
	viper.SetDefault("db_max_open_conns", 100)
	viper.SetDefault("db_max_idle_conns", 25)
	viper.SetDefault("db_conn_max_lifetime", 3600)

	// JWT 配置默认值
	viper.SetDefault("jwt_secret", "")
	viper.SetDefault("jwt_expires_in", "1h")
	viper.SetDefault("jwt_reset_expires_in", "5m")

	// 对象存储配置默认值
	viper.SetDefault("storage_type", "local")
	viper.SetDefault("storage_local_path", "./data/blobs")
	viper.SetDefault("storage_timeout", "30s")
	viper.SetDefault("minio_endpoint", "localhost:9000")
	viper.SetDefault("minio_access_key_id", "")
	viper.SetDefault("minio_secret_access_key", "")
	viper.SetDefault("minio_bucket_name", "share-places")
	viper.SetDefault("minio_use_ssl", false)
	viper.SetDefault("webdav_endpoint", "")
	viper.SetDefault("webdav_username", "")
	viper.SetDefault("webdav_password", "")
	viper.SetDefault("webdav_base_path", "share-places")

	// 地理编码配置默认值
	viper.SetDefault("geocoder_endpoint", "https://maps.googleapis.com/maps/api/geocode/json")
	viper.SetDefault("geocoder_api_key", "")
	viper.SetDefault("geocoder_timeout", "10s")
	viper.SetDefault("geocoder_cache_ttl", "10m")

	// 缓存提供者配置默认值
	viper.SetDefault("cache_type", "memory")
	viper.SetDefault("cache_redis_addr", "localhost:6379")
	viper.SetDefault("cache_redis_password", "")
	viper.SetDefault("cache_redis_db", 0)

	// 邮件配置默认值
	viper.SetDefault("smtp_host", "smtp.gmail.com")
	viper.SetDefault("smtp_port", 465)
	viper.SetDefault("smtp_username", "")
	viper.SetDefault("smtp_password", "")
	viper.SetDefault("smtp_sender_name", "Share Places Admin")
	viper.SetDefault("smtp_dial_timeout", "30s")

	// 上传配置默认值
	viper.SetDefault("upload_max_size_bytes", 3000000)
	viper.SetDefault("upload_temp_dir", "./data/temp")

	// 限流配置默认值
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_expire_time", "10m")

	// 孤儿 blob 扫描配置默认值
	viper.SetDefault("orphan_scan_interval", "0")
	viper.SetDefault("orphan_scan_concurrency", 4)
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return c.ServerDomain
	}
	host := c.ServerHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}
