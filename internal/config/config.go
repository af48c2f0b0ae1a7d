package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "MODSERVE"

const (
	IsolationGoroutine = "goroutine"
	IsolationProcess   = "process"
)

type LogConfig struct {
	Encoding string `mapstructure:"encoding"`
	Level    string `mapstructure:"level"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type Config struct {
	Address   string      `mapstructure:"address"`
	Port      int         `mapstructure:"port"`
	Verbose   bool        `mapstructure:"verbose"`
	Isolation string      `mapstructure:"isolation"`
	ModuleDir string      `mapstructure:"module_dir"`
	Log       LogConfig   `mapstructure:"log"`
	Redis     RedisConfig `mapstructure:"redis"`
}

func Default() *Config {
	return &Config{
		Isolation: IsolationGoroutine,
		Log: LogConfig{
			Encoding: "console",
			Level:    "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("address", d.Address)
	v.SetDefault("port", d.Port)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("isolation", d.Isolation)
	v.SetDefault("module_dir", d.ModuleDir)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.key", d.Redis.Key)
}

// Load resolves configuration from v. Flags bound to v win over
// MODSERVE_* environment variables, which win over the file at path
// (skipped when empty), which wins over defaults.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return &Error{Field: "port", Message: fmt.Sprintf("%d out of range", c.Port)}
	}
	switch c.Isolation {
	case IsolationGoroutine, IsolationProcess:
	default:
		return &Error{Field: "isolation", Message: fmt.Sprintf("unknown mode %q", c.Isolation)}
	}
	return nil
}

// Environ renders c as MODSERVE_* variables. A worker process started
// with them loads the same configuration without flags or files.
func (c *Config) Environ() []string {
	kv := [][2]string{
		{"address", c.Address},
		{"port", strconv.Itoa(c.Port)},
		{"verbose", strconv.FormatBool(c.Verbose)},
		{"isolation", c.Isolation},
		{"module_dir", c.ModuleDir},
		{"log.encoding", c.Log.Encoding},
		{"log.level", c.Log.Level},
		{"redis.addr", c.Redis.Addr},
		{"redis.password", c.Redis.Password},
		{"redis.db", strconv.Itoa(c.Redis.DB)},
		{"redis.key", c.Redis.Key},
	}
	env := make([]string, 0, len(kv))
	for _, p := range kv {
		env = append(env, EnvName(p[0])+"="+p[1])
	}
	return env
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Error represents a configuration error
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
