package config

import "github.com/spf13/viper"

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret          string
	SessionTokenSecret string

	LogLevel     string
	AllowOrigins []string
}

// Load reads configuration from the environment with local-dev defaults.
// Every key can be overridden via the matching uppercase environment
// variable (SERVER_PORT, DB_HOST, ...).
func Load() *Config {
	v := viper.New()

	v.SetDefault("server_port", "8080")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "classroom")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("jwt_secret", "super-secret-key-change-me")
	v.SetDefault("session_token_secret", "session-secret-change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("allow_origins", []string{"*"})

	v.AutomaticEnv()

	return &Config{
		ServerPort:         v.GetString("server_port"),
		DBHost:             v.GetString("db_host"),
		DBPort:             v.GetString("db_port"),
		DBUser:             v.GetString("db_user"),
		DBPassword:         v.GetString("db_password"),
		DBName:             v.GetString("db_name"),
		DBSSLMode:          v.GetString("db_sslmode"),
		JWTSecret:          v.GetString("jwt_secret"),
		SessionTokenSecret: v.GetString("session_token_secret"),
		LogLevel:           v.GetString("log_level"),
		AllowOrigins:       v.GetStringSlice("allow_origins"),
	}
}
