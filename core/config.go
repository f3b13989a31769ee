package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	StorageConfig struct {
		Driver     string // bolt (default), sqlite, postgres, memory
		Path       string // bolt & sqlite file path
		DSN        string // postgres
		Quota      int    // max bytes of a single record; 0 disables the check
		StateKey   string
		SessionKey string
	}

	ServerConfig struct {
		Address         string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	LogConfig struct {
		Level  string
		Format string // console | json
	}

	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string
		WorkDir      string

		Storage StorageConfig
		Server  ServerConfig
		Log     LogConfig
	}
)

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and
// the environment (variables are prefixed by the env name, eg. DEV_STORAGE_DRIVER).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Masomo")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("storage.driver", "bolt")
	v.SetDefault("storage.path", filepath.Join("data", "masomo.db"))
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.quota", 5*1024*1024)
	v.SetDefault("storage.stateKey", "lms_demo_data_v1")
	v.SetDefault("storage.sessionKey", "lms_current_user")
	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		WorkDir:      wd,
		Storage: StorageConfig{
			Driver:     strings.ToLower(v.GetString("storage.driver")),
			Path:       v.GetString("storage.path"),
			DSN:        v.GetString("storage.dsn"),
			Quota:      v.GetInt("storage.quota"),
			StateKey:   v.GetString("storage.stateKey"),
			SessionKey: v.GetString("storage.sessionKey"),
		},
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}
