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

// Build-time defaults, overridable with:
//
//	go build -ldflags "-X github.com/trezcool/proctor/core.defaultAPIBaseURL=https://... -X github.com/trezcool/proctor/core.defaultMockMode=true"
var (
	build             = "dev"
	defaultAPIBaseURL = "http://localhost:8080"
	defaultMockMode   = "false"
)

type (
	APIConfig struct {
		BaseURL  string
		MockMode bool
		Timeout  time.Duration // zero: no explicit timeout
	}

	ServerConfig struct {
		Address         string
		ShutdownTimeout time.Duration
		CookieSecure    bool
	}

	MockConfig struct {
		SigningKey string
		TokenTTL   time.Duration
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string
		SessionFile  string
		API          APIConfig
		Server       ServerConfig
		Mock         MockConfig
	}
)

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Proctor")
	conf.SetDefault("build", build)
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sessionFile", defaultSessionFile())
	conf.SetDefault("api.baseURL", defaultAPIBaseURL)
	conf.SetDefault("api.mockMode", defaultMockMode == "true")
	conf.SetDefault("api.timeout", time.Duration(0))
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.shutdownTimeout", 10*time.Second)
	conf.SetDefault("server.cookieSecure", false)
	conf.SetDefault("mock.signingKey", "proctor-mock-signing-key")
	conf.SetDefault("mock.tokenTTL", 8*time.Hour)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := ".env." + strings.ToLower(env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	// PROCTOR_API_BASEURL, PROCTOR_API_MOCKMODE, ...
	conf.SetEnvPrefix("proctor")
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
		SessionFile:  conf.GetString("sessionFile"),
		API: APIConfig{
			BaseURL:  strings.TrimRight(conf.GetString("api.baseURL"), "/"),
			MockMode: conf.GetBool("api.mockMode"),
			Timeout:  conf.GetDuration("api.timeout"),
		},
		Server: ServerConfig{
			Address:         conf.GetString("server.address"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			CookieSecure:    conf.GetBool("server.cookieSecure"),
		},
		Mock: MockConfig{
			SigningKey: conf.GetString("mock.signingKey"),
			TokenTTL:   conf.GetDuration("mock.tokenTTL"),
		},
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".proctor-session.yaml"
	}
	return filepath.Join(home, ".proctor", "session.yaml")
}
