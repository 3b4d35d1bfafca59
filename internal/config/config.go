package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabaseDriver   string
	DatabaseDSN      string
	MaxOpenConns     int
	MaxIdleConns     int
	AutoMigrate      bool
	GinMode          string
	LogLevel         string
	LogFormat        string
	LogDir           string
	TokenTTL         time.Duration
	OpenRegistration bool
	SiteName         string
}

const (
	defaultPort     = "9398"
	defaultTokenTTL = 24 * time.Hour
)

// Load 依次合并默认值、可选的 YAML 文件（CONFIG_FILE）、.env 与环境变量，环境变量优先。
func Load() (AppConfig, error) {
	// .env 不存在时只使用真实环境变量
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("listen_addr", "")
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_dsn", "shapeless-blog.db")
	v.SetDefault("db_max_open_conns", 50)
	v.SetDefault("db_max_idle_conns", 10)
	v.SetDefault("auto_migrate", true)
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_dir", "log")
	v.SetDefault("token_ttl", defaultTokenTTL.String())
	v.SetDefault("open_registration", true)
	v.SetDefault("site_name", "shapeless blog")
}

func fromViper(v *viper.Viper) AppConfig {
	port := strings.TrimSpace(v.GetString("port"))
	if port == "" {
		port = defaultPort
	}

	listenAddr := strings.TrimSpace(v.GetString("listen_addr"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	ttl := v.GetDuration("token_ttl")
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		DatabaseDriver:   strings.ToLower(strings.TrimSpace(v.GetString("database_driver"))),
		DatabaseDSN:      strings.TrimSpace(v.GetString("database_dsn")),
		MaxOpenConns:     v.GetInt("db_max_open_conns"),
		MaxIdleConns:     v.GetInt("db_max_idle_conns"),
		AutoMigrate:      v.GetBool("auto_migrate"),
		GinMode:          strings.TrimSpace(v.GetString("gin_mode")),
		LogLevel:         strings.TrimSpace(v.GetString("log_level")),
		LogFormat:        strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		LogDir:           strings.TrimSpace(v.GetString("log_dir")),
		TokenTTL:         ttl,
		OpenRegistration: v.GetBool("open_registration"),
		SiteName:         strings.TrimSpace(v.GetString("site_name")),
	}
}
