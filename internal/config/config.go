package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// GlobalConfig holds every tunable of the service, loaded from
// config.yml. Secrets may be overridden through environment variables
// prefixed LOTTOAPI_ (e.g. LOTTOAPI_DB_PASSWORD).
type GlobalConfig struct {
	Server ServerConf `yaml:"server" mapstructure:"server"`
	DB     DBConf     `yaml:"db" mapstructure:"db"`
	Redis  RedisConf  `yaml:"redis" mapstructure:"redis"`
	Cache  CacheConf  `yaml:"cache" mapstructure:"cache"`
}

type ServerConf struct {
	Port int `yaml:"port" mapstructure:"port"`
}

type DBConf struct {
	Host        string `yaml:"host" mapstructure:"host"`
	Port        string `yaml:"port" mapstructure:"port"`
	User        string `yaml:"user" mapstructure:"user"`
	Password    string `yaml:"password" mapstructure:"password"`
	Dbname      string `yaml:"dbname" mapstructure:"dbname"`
	MaxIdleConn int    `yaml:"max_idle_conn" mapstructure:"max_idle_conn"`
	MaxOpenConn int    `yaml:"max_open_conn" mapstructure:"max_open_conn"`
	MaxIdleTime int64  `yaml:"max_idle_time" mapstructure:"max_idle_time"`
}

// DSN builds the mysql data source name. parseTime is required so
// DATE columns scan into time values.
func (c DBConf) DSN() string {
	return fmt.Sprintf("%s:%s@(%s:%s)/%s?charset=utf8&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Dbname)
}

type RedisConf struct {
	Host     string `yaml:"rhost" mapstructure:"rhost"`
	Port     int    `yaml:"rport" mapstructure:"rport"`
	DB       int    `yaml:"rdb" mapstructure:"rdb"`
	PassWord string `yaml:"passwd" mapstructure:"passwd"`
	PoolSize int    `yaml:"poolsize" mapstructure:"poolsize"`
}

func (c RedisConf) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConf struct {
	DrawsTTL     time.Duration `yaml:"draws_ttl" mapstructure:"draws_ttl"`
	WarmInterval time.Duration `yaml:"warm_interval" mapstructure:"warm_interval"`
}

// Load reads config.yml from the given directories (falling back to
// ".", "./config" and "../config") and unmarshals it.
func Load(paths ...string) (*GlobalConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "../config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("lottoapi")
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("db.max_idle_conn", 10)
	v.SetDefault("db.max_open_conn", 50)
	v.SetDefault("db.max_idle_time", 300)
	v.SetDefault("cache.draws_ttl", 10*time.Minute)
	v.SetDefault("cache.warm_interval", 10*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg GlobalConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
