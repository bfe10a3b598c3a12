package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// DefaultContactNumber is used for the WhatsApp handoff when CONTACT_NUMBER is unset.
const DefaultContactNumber = "50582332792"

type Config struct {
	Port           string `envconfig:"PORT"             default:"8080"`
	DBDSN          string `envconfig:"DB_DSN"           default:"balalaika.db"`
	LogFile        string `envconfig:"LOG_FILE"         default:""`
	LogLevel       string `envconfig:"LOG_LEVEL"        default:"info"`
	ContactNumber  string `envconfig:"CONTACT_NUMBER"   default:"50582332792"`
	RedisURL       string `envconfig:"REDIS_URL"        default:""`
	CookieSecure   bool   `envconfig:"COOKIE_SECURE"    default:"false"`
	TemplatesDir   string `envconfig:"TEMPLATES_DIR"    default:"./web/templates"`
	MaxUploadBytes int    `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
}

// Load reads .env (when present) and then the process environment.
// A malformed variable falls back to the defaults rather than aborting startup.
func Load(logger *logrus.Logger) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("[config] could not load .env (continuing): %v", err)
	} else if err == nil {
		logger.Info("[config] loaded .env")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Warnf("[config] bad environment, using defaults: %v", err)
		cfg = Defaults()
	}
	if cfg.ContactNumber == "" {
		cfg.ContactNumber = DefaultContactNumber
	}
	logger.Infof("[config] PORT=%s DB_DSN=%s LOG_FILE=%s REDIS=%t", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.RedisURL != "")
	return cfg
}

// Defaults returns the configuration used when nothing is set; tests build on it.
func Defaults() Config {
	return Config{
		Port:           "8080",
		DBDSN:          "balalaika.db",
		LogLevel:       "info",
		ContactNumber:  DefaultContactNumber,
		TemplatesDir:   "./web/templates",
		MaxUploadBytes: 10 << 20,
	}
}
