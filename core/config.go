package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultClientName                 = "fetch"
	DefaultTimeout                    = 30 * time.Second
	DefaultMaxResponseBodyBytes int64 = 10 << 20 // 10 MiB
)

type Config struct {
	ClientName           string            `koanf:"client_name" mapstructure:"client_name"`
	UserAgent            string            `koanf:"user_agent" mapstructure:"user_agent"`
	Timeout              time.Duration     `koanf:"timeout" mapstructure:"timeout"`
	MaxResponseBodyBytes int64             `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
	DefaultHeaders       map[string]string `koanf:"default_headers" mapstructure:"default_headers"`
}

func DefaultConfig() Config {
	return Config{
		ClientName:           DefaultClientName,
		Timeout:              DefaultTimeout,
		MaxResponseBodyBytes: DefaultMaxResponseBodyBytes,
		DefaultHeaders:       map[string]string{},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ClientName) == "" {
		return fmt.Errorf("core: client_name is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("core: timeout must be >= 0")
	}
	if c.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("core: max_response_body_bytes must be >= 0")
	}
	for key := range c.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("core: default header name is required")
		}
	}
	return nil
}
