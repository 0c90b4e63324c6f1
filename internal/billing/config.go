package billing

// Config contains billing API settings.
type Config struct {
	APIKey  string `env:"BILLING_API_KEY"`
	BaseURL string `env:"BILLING_BASE_URL" envDefault:"https://app.amberflo.io"`
	Timeout int    `env:"BILLING_TIMEOUT"  envDefault:"30"`
}
