package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	Server struct {
		Host            string
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
	}

	// Backend is the external API that owns students, sessions and settings.
	Backend struct {
		BaseURL string
		Timeout time.Duration
	}

	Kiosk struct {
		PageSize int
	}

	RollbarToken string
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Kiosk")
	conf.SetDefault("build", "dev")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("serverDebugAddress", ":8001")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("backendBaseUrl", "http://localhost:3000")
	conf.SetDefault("backendTimeout", 30*time.Second)
	conf.SetDefault("kioskPageSize", 25)
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
	}
	c.Server.Host = conf.GetString("serverHost")
	c.Server.Address = conf.GetString("serverAddress")
	c.Server.DebugAddress = conf.GetString("serverDebugAddress")
	c.Server.ShutdownTimeout = conf.GetDuration("serverShutdownTimeout")
	c.Backend.BaseURL = strings.TrimRight(conf.GetString("backendBaseUrl"), "/")
	c.Backend.Timeout = conf.GetDuration("backendTimeout")
	c.Kiosk.PageSize = conf.GetInt("kioskPageSize")

	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.Server.Address, "serverAddress"),
		vala.StringNotEmpty(c.Backend.BaseURL, "backendBaseUrl"),
		vala.GreaterThan(c.Kiosk.PageSize, 0, "kioskPageSize"),
	).Check()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}

// Getwd tries to find the project root "kiosk".
// go-test changes the working directory to the test package being run during tests...
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func Getwd() string {
	root := "kiosk"
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(currDir); err == nil {
			dirBase := filepath.Base(currDir)
			if dirBase == root && fi.IsDir() {
				return currDir
			}
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
