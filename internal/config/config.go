package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	ShortLink ShortLinkConfig `mapstructure:"shortlink"`
	Desktop   DesktopConfig   `mapstructure:"desktop"`
	Stats     StatsConfig     `mapstructure:"stats"`
	I18n      I18nConfig      `mapstructure:"i18n"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DBConfig 数据库配置，driver 为 sqlite（本地文件）或 mysql
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig 为空地址时不启用缓存
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	TTL      int    `mapstructure:"ttl"` // 秒
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

type ShortLinkConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	CodeLength int    `mapstructure:"code_length"`
}

type DesktopConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	QRDir   string `mapstructure:"qr_dir"`
	QRSize  int    `mapstructure:"qr_size"`
}

type StatsConfig struct {
	Cron string `mapstructure:"cron"`
}

type I18nConfig struct {
	DefaultLang string `mapstructure:"default_lang"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:8080")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "url_shortener.db")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.ttl", 3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/shortlink.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("shortlink.base_url", "http://short.url")
	v.SetDefault("shortlink.code_length", 6)

	v.SetDefault("desktop.enabled", true)
	v.SetDefault("desktop.qr_dir", "qrcodes")
	v.SetDefault("desktop.qr_size", 256)

	v.SetDefault("stats.cron", "*/10 * * * *")

	v.SetDefault("i18n.default_lang", "en")
}

// Load 读取配置文件，path 为空时在当前目录查找 config.yaml。
// 配置文件不存在时仅使用默认值和环境变量（SHORTLINK_DB_DSN 等）。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("shortlink")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ShortLink.BaseURL = strings.TrimRight(cfg.ShortLink.BaseURL, "/")
	if cfg.ShortLink.CodeLength <= 0 {
		cfg.ShortLink.CodeLength = 6
	}

	return &cfg, nil
}
