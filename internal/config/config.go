package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string              `yaml:"env" env-default:"local"`
	StoragePath   string              `yaml:"storage_path" env-required:"true"`
	AppSecret     string              `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	TokenTTL      time.Duration       `yaml:"token_ttl" env-default:"15m"`
	HTTP          HTTPConfig          `yaml:"http"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
	Redis         RedisConf           `yaml:"redis"`
	FeedLimit     int                 `yaml:"feed_limit" env-default:"50"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type ObjectStorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_KEY"`
	Bucket          string `yaml:"bucket" env-default:"photos"`
	PublicURL       string `yaml:"public_url"`
	UseSSL          bool   `yaml:"use_ssl"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redispassword"`
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
	// check if file exists
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
