package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "TASKMANAGER"

type HTTP struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type MySQL struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Mongo struct {
	URI      string
	Database string
}

type Store struct {
	Driver     string
	SQLitePath string
	MySQL      MySQL
	Redis      Redis
	Mongo      Mongo
}

type JWT struct {
	Secret string
	Issuer string
	ExpMin int
}

type Admin struct {
	Username string
	Email    string
	FullName string
	Password string
}

type Log struct {
	Level  string
	Format string
	Path   string
}

type Config struct {
	HTTP  HTTP
	Store Store
	JWT   JWT
	Admin Admin
	Log   Log
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8001")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite.path", "taskmanager.db")
	v.SetDefault("store.mysql.host", "127.0.0.1")
	v.SetDefault("store.mysql.port", 3306)
	v.SetDefault("store.mysql.user", "root")
	v.SetDefault("store.mysql.pass", "")
	v.SetDefault("store.mysql.name", "taskmanager")
	v.SetDefault("store.redis.addr", "127.0.0.1:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "taskmanager:")
	v.SetDefault("store.mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("store.mongo.database", "taskmanager")
	v.SetDefault("jwt.secret", "dev-secret")
	v.SetDefault("jwt.issuer", "taskmanager")
	v.SetDefault("jwt.exp_min", 30)
	v.SetDefault("seed.admin.username", "admin")
	v.SetDefault("seed.admin.email", "admin@taskmanager.com")
	v.SetDefault("seed.admin.full_name", "System Administrator")
	v.SetDefault("seed.admin.password", "admin123")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.path", "")
}

// New prepares a viper instance: defaults, .env, TASKMANAGER_* environment
// and the optional flags. path may name a missing file.
func New(path string, flags *pflag.FlagSet) (*viper.Viper, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if flags != nil {
		for key, name := range map[string]string{"http.addr": "addr", "store.driver": "store"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
			v.SetConfigFile("")
		}
	}
	return v, nil
}

func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v, err := New(path, flags)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTP: HTTP{
			Addr:         v.GetString("http.addr"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			CORSOrigins:  v.GetStringSlice("http.cors_origins"),
		},
		Store: Store{
			Driver:     strings.ToLower(v.GetString("store.driver")),
			SQLitePath: v.GetString("store.sqlite.path"),
			MySQL: MySQL{
				Host: v.GetString("store.mysql.host"),
				Port: v.GetInt("store.mysql.port"),
				User: v.GetString("store.mysql.user"),
				Pass: v.GetString("store.mysql.pass"),
				Name: v.GetString("store.mysql.name"),
			},
			Redis: Redis{
				Addr:     v.GetString("store.redis.addr"),
				Password: v.GetString("store.redis.password"),
				DB:       v.GetInt("store.redis.db"),
				Prefix:   v.GetString("store.redis.prefix"),
			},
			Mongo: Mongo{
				URI:      v.GetString("store.mongo.uri"),
				Database: v.GetString("store.mongo.database"),
			},
		},
		JWT: JWT{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
			ExpMin: v.GetInt("jwt.exp_min"),
		},
		Admin: Admin{
			Username: v.GetString("seed.admin.username"),
			Email:    v.GetString("seed.admin.email"),
			FullName: v.GetString("seed.admin.full_name"),
			Password: v.GetString("seed.admin.password"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Path:   v.GetString("log.path"),
		},
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret"
	}
	if cfg.JWT.ExpMin <= 0 {
		cfg.JWT.ExpMin = 30
	}
	switch cfg.Store.Driver {
	case "sqlite", "mysql", "redis", "mongo":
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	return cfg, nil
}

// Watch re-reads the config file on change and hands the fresh values to
// onChange. It is a no-op when no file was loaded.
func Watch(v *viper.Viper, onChange func(*Config, fsnotify.Event)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := FromViper(v)
		if err != nil {
			return
		}
		onChange(cfg, e)
	})
	v.WatchConfig()
}
