package emailjs

import "time"

// Config holds EmailJS REST API configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	BaseURL    string        `env:"EMAILJS_BASE_URL" envDefault:"https://api.emailjs.com"`
	PrivateKey string        `env:"EMAILJS_PRIVATE_KEY"`
	Timeout    time.Duration `env:"EMAILJS_TIMEOUT" envDefault:"15s"`
}
