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
	Debug    bool
	TestMode bool
	Env      string // DEV (local; default), TEST, QA, PROD
	Build    string

	AppName          string
	SecretKey        []byte
	DefaultFromEmail string
	FrontendBaseURL  string

	SendgridAPIKey string
	RollbarToken   string

	JWTExpirationDelta        time.Duration
	JWTRefreshExpirationDelta time.Duration

	Server struct {
		Host string
		Port string
	}

	// Operator "master" credentials; a separate credential track outside
	// academy scoping.
	Operator struct {
		Username string
		Password string
	}

	Database struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) DatabaseAddress() string {
	return c.Database.Host + ":" + c.Database.Port
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and ENV-prefixed environment variables.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "OSS Flow")
	conf.SetDefault("secretKey", "y0u-sh4ll-n0t-p4ss_oss-flow-dev-only")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("serverHost", "")
	conf.SetDefault("serverPort", "8080")
	conf.SetDefault("operatorUsername", "fpo")
	conf.SetDefault("operatorPassword", "2725")
	conf.SetDefault("dbEngine", "postgres")
	conf.SetDefault("dbHost", "localhost")
	conf.SetDefault("dbPort", "5432")
	conf.SetDefault("dbName", "ossflow")
	conf.SetDefault("dbUser", "ossflow")
	conf.SetDefault("dbPassword", "")
	conf.SetDefault("dbDisableTLS", true)

	env := os.Getenv("ENV")
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:                     conf.GetBool("debug"),
		TestMode:                  testMode,
		Env:                       env,
		Build:                     conf.GetString("build"),
		AppName:                   conf.GetString("appName"),
		SecretKey:                 []byte(conf.GetString("secretKey")),
		DefaultFromEmail:          conf.GetString("defaultFromEmail"),
		FrontendBaseURL:           conf.GetString("frontendBaseURL"),
		SendgridAPIKey:            conf.GetString("sendgridApiKey"),
		RollbarToken:              conf.GetString("rollbarToken"),
		JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
		JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
	}
	c.Server.Host = conf.GetString("serverHost")
	c.Server.Port = conf.GetString("serverPort")
	c.Operator.Username = conf.GetString("operatorUsername")
	c.Operator.Password = conf.GetString("operatorPassword")
	c.Database.Engine = conf.GetString("dbEngine")
	c.Database.Host = conf.GetString("dbHost")
	c.Database.Port = conf.GetString("dbPort")
	c.Database.Name = conf.GetString("dbName")
	c.Database.User = conf.GetString("dbUser")
	c.Database.Password = conf.GetString("dbPassword")
	c.Database.DisableTLS = conf.GetBool("dbDisableTLS")
	return c
}
