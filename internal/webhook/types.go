package webhook

import (
	"fmt"
	"log/slog"

	"github.com/paylens/ingestd/internal/config"
	"github.com/paylens/ingestd/internal/ingest"
)

// Config holds webhook server configuration.
type Config struct {
	Listen    string
	Endpoints []Endpoint
}

// Endpoint binds one URL path to a configured processor.
type Endpoint struct {
	// Path is the URL path for this webhook (e.g., "/webhook/stripe").
	Path string

	// BodyEncoding is "" for raw bodies or "base64" when the upstream
	// transport base64-wraps them.
	BodyEncoding string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64

	// Processor handles the verified request cycle for this endpoint.
	Processor *ingest.Processor
}

// Default values
const DefaultMaxBodySize = 1048576 // 1 MB

// FromConfig builds the server configuration, wiring one processor per
// configured endpoint. Endpoints with unresolved secrets are still served;
// they answer 500 until the secret is provided.
func FromConfig(cfg *config.Config, emitter ingest.Emitter, logger *slog.Logger) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("config is nil")
	}

	out := Config{
		Listen:    cfg.Listen,
		Endpoints: make([]Endpoint, len(cfg.Endpoints)),
	}

	for i, ep := range cfg.Endpoints {
		tolerance, err := ep.ToleranceDuration()
		if err != nil {
			return Config{}, fmt.Errorf("endpoint %q: invalid tolerance: %w", ep.Path, err)
		}
		maxBody, err := ep.MaxBodyBytes()
		if err != nil {
			return Config{}, fmt.Errorf("endpoint %q: invalid max_body_size: %w", ep.Path, err)
		}
		if maxBody == 0 {
			maxBody = DefaultMaxBodySize
		}

		secret := ep.Secret
		if !ep.SecretResolved() {
			// Leave the processor unconfigured; it surfaces the 500 path.
			secret = ""
			logger.Warn("endpoint secret is not resolved", "path", ep.Path)
		}

		out.Endpoints[i] = Endpoint{
			Path:         ep.Path,
			BodyEncoding: ep.BodyEncoding,
			MaxBodySize:  maxBody,
			Processor: ingest.New(ingest.Config{
				Secret:          secret,
				SignatureHeader: ep.SignatureHeader,
				Tolerance:       tolerance,
			}, emitter, logger.With(slog.String("endpoint", ep.Path))),
		}
	}

	return out, nil
}
