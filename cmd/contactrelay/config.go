package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/contactrelay/middlewares"
	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/cookie"
	"github.com/dmitrymomot/contactrelay/pkg/emailjs"
	"github.com/dmitrymomot/contactrelay/pkg/logger"
	"github.com/dmitrymomot/contactrelay/pkg/mailer"
	"github.com/dmitrymomot/contactrelay/pkg/mailer/resend"
	"github.com/dmitrymomot/contactrelay/pkg/mailrelay"
	"github.com/dmitrymomot/contactrelay/pkg/redis"
)

// Delivery drivers selectable with DELIVERY_DRIVER.
const (
	DriverEmailJS = "emailjs"
	DriverResend  = "resend"
)

// ErrUnknownDriver is returned for an unsupported DELIVERY_DRIVER.
var ErrUnknownDriver = errors.New("unknown delivery driver")

// Config is the full process configuration, read from the environment.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	Driver          string        `env:"DELIVERY_DRIVER" envDefault:"emailjs"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	StateTTL        time.Duration `env:"CONTACT_STATE_TTL" envDefault:"2m"`
	MetricsPath     string        `env:"METRICS_PATH" envDefault:"/metrics"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"65536"`

	Contact   contact.Config
	EmailJS   emailjs.Config
	Resend    resend.Config
	Mailer    mailer.Config
	MailRelay mailrelay.Config
	Redis     redis.Config
	Logger    logger.Config
	Cookie    cookie.Config
	CORS      middlewares.CORSConfig
}

// loadConfig loads dotenv files, then parses the environment.
// Variables already set in the environment win over dotenv values.
// With no files given, .env is loaded when it exists.
func loadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, err
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	switch cfg.Driver {
	case DriverEmailJS, DriverResend:
	default:
		return Config{}, errors.Join(ErrUnknownDriver, errors.New(cfg.Driver))
	}
	return cfg, nil
}
