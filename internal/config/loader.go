package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a file. ${VAR} placeholders are
// interpolated from the process environment before parsing, which keeps
// secrets out of the file itself.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}

	cfg := Defaults()
	interpolated := interpolateEnv(string(data))
	if err := yaml.Unmarshal([]byte(interpolated), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", absPath, err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// interpolateEnv replaces ${VAR} placeholders with environment values.
// Unset variables leave the placeholder in place; an unresolved secret
// placeholder behaves like a missing secret at request time.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

func validate(cfg *Config) error {
	if cfg.Listen == "" {
		return fmt.Errorf("listen address is empty")
	}
	if len(cfg.Endpoints) == 0 {
		return fmt.Errorf("no webhook endpoints configured")
	}

	seen := make(map[string]bool)
	for i, ep := range cfg.Endpoints {
		if ep.Path == "" || !strings.HasPrefix(ep.Path, "/") {
			return fmt.Errorf("endpoints[%d]: path %q must start with /", i, ep.Path)
		}
		if seen[ep.Path] {
			return fmt.Errorf("endpoints[%d]: duplicate path %q", i, ep.Path)
		}
		seen[ep.Path] = true

		switch ep.BodyEncoding {
		case "", "base64":
		default:
			return fmt.Errorf("endpoints[%d]: unknown body_encoding %q (want empty or base64)", i, ep.BodyEncoding)
		}

		if _, err := ep.ToleranceDuration(); err != nil {
			return fmt.Errorf("endpoints[%d]: invalid tolerance %q: %w", i, ep.Tolerance, err)
		}
		if _, err := ep.MaxBodyBytes(); err != nil {
			return fmt.Errorf("endpoints[%d]: invalid max_body_size %q: %w", i, ep.MaxBodySize, err)
		}

		// Note: an empty or unresolved secret is deliberately NOT a load
		// error; the endpoint answers 500 until the secret is provided.
	}

	if cfg.Ledger.Enabled && cfg.Ledger.Path == "" {
		return fmt.Errorf("ledger enabled but ledger.path is empty")
	}
	if cfg.Kafka.Enabled {
		if cfg.Kafka.Broker == "" {
			return fmt.Errorf("kafka enabled but kafka.broker is empty")
		}
		if cfg.Kafka.Topic == "" {
			return fmt.Errorf("kafka enabled but kafka.topic is empty")
		}
	}
	return nil
}

// SecretResolved reports whether the endpoint's secret is usable: non-empty
// and not a leftover ${VAR} placeholder.
func (ep EndpointConfig) SecretResolved() bool {
	return ep.Secret != "" && !envVarPattern.MatchString(ep.Secret)
}

// ToleranceDuration parses the tolerance string. Empty means "use default".
func (ep EndpointConfig) ToleranceDuration() (time.Duration, error) {
	if ep.Tolerance == "" {
		return 0, nil
	}
	if ep.Tolerance == "0" {
		// Explicit zero disables the window check.
		return -1, nil
	}
	d, err := time.ParseDuration(ep.Tolerance)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("tolerance must not be negative")
	}
	return d, nil
}

// MaxBodyBytes parses size strings like "1MB", "2048576" to bytes.
// Returns 0 for empty (caller applies its default).
func (ep EndpointConfig) MaxBodyBytes() (int64, error) {
	size := ep.MaxBodySize
	if size == "" {
		return 0, nil
	}

	upper := strings.ToUpper(size)
	multiplier := int64(1)

	if strings.HasSuffix(upper, "KB") {
		multiplier = 1024
		size = strings.TrimSuffix(upper, "KB")
	} else if strings.HasSuffix(upper, "MB") {
		multiplier = 1024 * 1024
		size = strings.TrimSuffix(upper, "MB")
	} else if strings.HasSuffix(upper, "GB") {
		multiplier = 1024 * 1024 * 1024
		size = strings.TrimSuffix(upper, "GB")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(size), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result < 0 { // overflow
		return 0, fmt.Errorf("size too large")
	}
	return result, nil
}
