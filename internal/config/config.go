package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AWS struct {
		KeyID     string `mapstructure:"key_id"`
		SecretKey string `mapstructure:"secret_key"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
	} `mapstructure:"aws"`
	Storage struct {
		Provider  string `mapstructure:"provider"` // "s3" or "local"
		LocalRoot string `mapstructure:"local_root"`
	} `mapstructure:"storage"`
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		TempDir     string `mapstructure:"temp_dir"`
		AuthSecret  string `mapstructure:"auth_secret"`
	} `mapstructure:"server"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Catalog struct {
		PlayCountMin       int `mapstructure:"play_count_min"`
		PlayCountMax       int `mapstructure:"play_count_max"`
		ArtistDisplayLimit int `mapstructure:"artist_display_limit"`
	} `mapstructure:"catalog"`
	Sweep struct {
		IntervalSeconds    int  `mapstructure:"interval_seconds"`
		GracePeriodMinutes int  `mapstructure:"grace_period_minutes"`
		DryRun             bool `mapstructure:"dry_run"`
	} `mapstructure:"sweep"`
}

func Load() *Config {
	viper.SetEnvPrefix("CATALOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("aws.key_id")
	viper.BindEnv("aws.secret_key")
	viper.BindEnv("aws.endpoint")
	viper.BindEnv("aws.region")
	viper.BindEnv("aws.bucket")
	viper.BindEnv("storage.provider")
	viper.BindEnv("storage.local_root")
	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.temp_dir")
	viper.BindEnv("server.auth_secret")
	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")
	viper.BindEnv("catalog.play_count_min")
	viper.BindEnv("catalog.play_count_max")
	viper.BindEnv("catalog.artist_display_limit")
	viper.BindEnv("sweep.interval_seconds")
	viper.BindEnv("sweep.grace_period_minutes")
	viper.BindEnv("sweep.dry_run")

	// Defaults
	viper.SetDefault("storage.provider", "s3")
	viper.SetDefault("storage.local_root", "./data")
	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.temp_dir", "/tmp/catalog-uploads")

	// The play-count seed band makes new entries look organically popular.
	// Display cosmetics only, so it stays configurable.
	viper.SetDefault("catalog.play_count_min", 5335)
	viper.SetDefault("catalog.play_count_max", 24626)
	viper.SetDefault("catalog.artist_display_limit", 4)

	viper.SetDefault("sweep.interval_seconds", 3600)
	viper.SetDefault("sweep.grace_period_minutes", 60)
	viper.SetDefault("sweep.dry_run", false)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Storage.Provider != "local" && cfg.AWS.KeyID == "" {
		log.Fatal("Critical: AWS KeyID is missing (CATALOG_AWS_KEY_ID)")
	}

	return &cfg
}
