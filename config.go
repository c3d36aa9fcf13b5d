package disruptor

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds pipeline configuration loadable from the environment.
type Config struct {
	// Capacity is the ring buffer size in slots. Must be a positive
	// power of two.
	Capacity int64 `envconfig:"DISRUPTOR_CAPACITY" default:"1024"`
	// Producer selects the producer mode: "single" or "multi".
	Producer string `envconfig:"DISRUPTOR_PRODUCER" default:"single"`
	// Wait selects the wait strategy: "spin" or "blocking".
	Wait string `envconfig:"DISRUPTOR_WAIT" default:"spin"`
	// Name is the pipeline name carried in logs and metrics.
	Name string `envconfig:"DISRUPTOR_NAME" default:"disruptor"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadConfigOrDefault loads configuration from the environment or
// falls back to defaults.
func LoadConfigOrDefault() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Capacity: 1024,
		Producer: "single",
		Wait:     "spin",
		Name:     "disruptor",
	}
}

// NewBuilderFromConfig returns a builder preconfigured from cfg.
// Unknown producer or wait values surface as ErrProducerMode or
// ErrWaitStrategy when Build is called.
func NewBuilderFromConfig[T any](cfg *Config) *Builder[T] {
	b := NewBuilder[T](cfg.Capacity).WithName(cfg.Name)
	switch cfg.Producer {
	case "single":
		b.WithSingleProducer()
	case "multi":
		b.WithMultiProducer()
	default:
		b.err = fmt.Errorf("%w: %q", ErrProducerMode, cfg.Producer)
	}
	switch cfg.Wait {
	case "spin":
		b.WithSpinWait()
	case "blocking":
		b.WithBlockingWait()
	default:
		b.err = fmt.Errorf("%w: %q", ErrWaitStrategy, cfg.Wait)
	}
	return b
}
