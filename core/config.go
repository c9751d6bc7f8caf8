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

type Config struct {
	Env          string
	Build        string
	Debug        bool
	TestMode     bool
	AppName      string
	SecretKey    string
	RollbarToken string

	Server struct {
		Address         string
		DebugHost       string
		DisableReqLogs  bool
		CSRF            bool
		ShutdownTimeout time.Duration
		SessionTTL      time.Duration
	}

	API struct {
		BaseURL string
		Timeout time.Duration // zero means no timeout
		Proxy   bool          // expose the backend under /api (development only)
	}
}

// NewConfig loads the console configuration from defaults, `config/.env.<env>` and the environment.
// Environment variables are prefixed with the upper-cased env name, e.g. `DEV_API_BASEURL`.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Academia")
	v.SetDefault("secretKey", "t7#q2wz!k9v@c3lm0p(e8r&u5y)x1b*n4s6d$f-g+h=j")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.csrf", true)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.sessionTTL", 12*time.Hour)
	v.SetDefault("api.baseURL", "http://localhost:8080")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("api.proxy", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Server.Address = v.GetString("server.address")
	conf.Server.DebugHost = v.GetString("server.debugHost")
	conf.Server.DisableReqLogs = v.GetBool("server.disableReqLogs")
	conf.Server.CSRF = v.GetBool("server.csrf")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Server.SessionTTL = v.GetDuration("server.sessionTTL")
	conf.API.BaseURL = strings.TrimRight(v.GetString("api.baseURL"), "/")
	conf.API.Timeout = v.GetDuration("api.timeout")
	conf.API.Proxy = v.GetBool("api.proxy")
	return conf
}

func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}
