package config

// Config represents the complete ingestd configuration.
type Config struct {
	Service   ServiceConfig    `yaml:"service"`
	Listen    string           `yaml:"listen"`
	Endpoints []EndpointConfig `yaml:"endpoints"`
	Ledger    LedgerConfig     `yaml:"ledger"`
	Kafka     KafkaConfig      `yaml:"kafka,omitempty"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LockPath  string `yaml:"lock_path"`
}

// EndpointConfig defines a single webhook endpoint.
type EndpointConfig struct {
	// Path is the URL path for this endpoint (e.g., "/webhook/stripe").
	Path string `yaml:"path"`

	// Secret is the provider's signing secret. Usually supplied via env
	// interpolation: secret: ${STRIPE_WEBHOOK_SECRET}. An empty secret does
	// not fail config load; every request to the endpoint answers 500 until
	// the operator fixes it.
	Secret string `yaml:"secret"`

	// SignatureHeader is the HTTP header carrying the signature.
	// Default: "Stripe-Signature".
	SignatureHeader string `yaml:"signature_header,omitempty"`

	// Tolerance is the accepted signed-timestamp age, as a duration string
	// (e.g., "5m"). Default 5m; "0" disables the window check.
	Tolerance string `yaml:"tolerance,omitempty"`

	// BodyEncoding declares how upstream transport wrapped the body:
	// "" (raw) or "base64" (gateway-style base64 wrapping).
	BodyEncoding string `yaml:"body_encoding,omitempty"`

	// MaxBodySize is the maximum allowed request body size (e.g., "1MB").
	MaxBodySize string `yaml:"max_body_size,omitempty"`
}

// LedgerConfig defines the durable event ledger settings.
type LedgerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// KafkaConfig defines optional downstream forwarding.
type KafkaConfig struct {
	Enabled bool   `yaml:"enabled"`
	Broker  string `yaml:"broker"`
	Topic   string `yaml:"topic"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "ingestd",
			LogLevel:  "info",
			LogFormat: "json",
			LockPath:  "./data/ingestd.lock",
		},
		Listen: "127.0.0.1:8080",
		Ledger: LedgerConfig{
			Enabled: true,
			Path:    "./data/ingest.db",
		},
	}
}
