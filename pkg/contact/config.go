package contact

// Config identifies the hosted relay a submission is delivered through.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	ServiceID  string `env:"CONTACT_SERVICE_ID"`
	TemplateID string `env:"CONTACT_TEMPLATE_ID"`
	PublicKey  string `env:"CONTACT_PUBLIC_KEY"`
}

// Configured reports whether all three identifiers are set.
func (c Config) Configured() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}
