package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePublisher(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePublisher() error {
	if c.Publisher.TickInterval < 1 {
		return fmt.Errorf("publisher.tick_interval must be at least 1 second, got %d", c.Publisher.TickInterval)
	}
	if c.Publisher.ErrorRetryInterval < 1 {
		return fmt.Errorf("publisher.error_retry_interval must be at least 1 second, got %d", c.Publisher.ErrorRetryInterval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
