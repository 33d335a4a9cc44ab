package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Options struct {
	AllowedIPAddresses []string `mapstructure:"allowed_ip_addresses"`
	EnableHealth       bool     `mapstructure:"enable_health"`
	EnableStats        bool     `mapstructure:"enable_stats"`
	ForceHTTPS         bool     `mapstructure:"force_https"`
	FillTags           bool     `mapstructure:"fill_tags"`
}

type Config struct {
	Debug           bool     `mapstructure:"debug"`
	Port            int      `mapstructure:"port"`
	UploadDir       string   `mapstructure:"upload_dir"`
	MaxUploadMemory int64    `mapstructure:"max_upload_memory"`
	Catalog         string   `mapstructure:"catalog"`
	MongoURI        string   `mapstructure:"mongo_uri"`
	MongoDB         string   `mapstructure:"mongo_db"`
	MongoCollection string   `mapstructure:"mongo_collection"`
	DBPath          string   `mapstructure:"db_path"`
	AllowedHeaders  []string `mapstructure:"allowed_headers"`
	AllowedMethods  []string `mapstructure:"allowed_methods"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	Options         *Options `mapstructure:"options"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:            DefaultPort,
		UploadDir:       DefaultUploadDir,
		MaxUploadMemory: DefaultMaxUploadMemory,
		Catalog:         DefaultCatalog,
		MongoDB:         DefaultMongoDB,
		MongoCollection: DefaultMongoCollection,
		DBPath:          DefaultDBPath,
		AllowedHeaders:  []string{"Origin", "Content-Type", "Accept"},
		AllowedMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowedOrigins:  []string{"*"},
		Options:         &Options{},
	}
}

// Load reads the configuration from the environment, the given file and the
// defaults, in that order of precedence. An empty path falls back to a .env
// file in the working directory when one exists.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			path = DefaultEnvFile
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if strings.HasSuffix(path, ".env") {
			v.SetConfigType("env")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("debug", c.Debug)
	v.SetDefault("port", c.Port)
	v.SetDefault("upload_dir", c.UploadDir)
	v.SetDefault("max_upload_memory", c.MaxUploadMemory)
	v.SetDefault("catalog", c.Catalog)
	v.SetDefault("mongo_uri", c.MongoURI)
	v.SetDefault("mongo_db", c.MongoDB)
	v.SetDefault("mongo_collection", c.MongoCollection)
	v.SetDefault("db_path", c.DBPath)
	v.SetDefault("allowed_headers", c.AllowedHeaders)
	v.SetDefault("allowed_methods", c.AllowedMethods)
	v.SetDefault("allowed_origins", c.AllowedOrigins)
	v.SetDefault("options.allowed_ip_addresses", c.Options.AllowedIPAddresses)
	v.SetDefault("options.enable_health", c.Options.EnableHealth)
	v.SetDefault("options.enable_stats", c.Options.EnableStats)
	v.SetDefault("options.force_https", c.Options.ForceHTTPS)
	v.SetDefault("options.fill_tags", c.Options.FillTags)
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.UploadDir == "" {
		return errors.New("upload dir is empty")
	}
	switch c.Catalog {
	case CatalogMongo:
		if c.MongoURI == "" {
			return errors.New("mongo catalog requires MONGO_URI")
		}
	case CatalogSqlite:
		if c.DBPath == "" {
			return errors.New("sqlite catalog requires DB_PATH")
		}
	default:
		return fmt.Errorf("unknown catalog backend %q", c.Catalog)
	}
	if c.Options == nil {
		c.Options = &Options{}
	}
	return nil
}
