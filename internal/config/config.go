package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env-default:"local"`
	DSN         string            `yaml:"dsn" env-required:"true"`
	TokenSecret string            `yaml:"token_secret" env:"TOKEN_SECRET" env-required:"true"`
	TokenTTL    time.Duration     `yaml:"token_ttl" env-default:"1h"`
	RefreshTTL  time.Duration     `yaml:"refresh_ttl" env-default:"720h"`
	ViewerTTL   time.Duration     `yaml:"viewer_ttl" env-default:"30m"`
	HTTP        HTTPConfig        `yaml:"http"`
	BlobStorage BlobStorageConfig `yaml:"blob_storage"`
	Share       ShareConfig       `yaml:"share"`
	Redis       RedisConf         `yaml:"redis"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type BlobStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
	MaxSize int64  `yaml:"max_size" env-default:"10485760"`
}

// ShareConfig holds the public origin that issued share links are composed
// against, e.g. https://museweave.app.
type ShareConfig struct {
	Origin string `yaml:"origin" env-default:"http://localhost:8080"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
