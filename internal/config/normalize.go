package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) applyEnv() error {
	if err := envInt(EnvWorkers, &c.Workers); err != nil {
		return err
	}
	if err := envInt(EnvAdmissionLimit, &c.AdmissionLimit); err != nil {
		return err
	}
	if err := envInt(EnvPageSegMode, &c.PageSegMode); err != nil {
		return err
	}
	if value, ok := os.LookupEnv(EnvLanguage); ok && strings.TrimSpace(value) != "" {
		c.Language = value
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(value) != "" {
		c.LogLevel = value
	}
	return nil
}

func envInt(key string, dst *int) error {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, value)
	}
	*dst = n
	return nil
}

func (c *Config) normalize() {
	c.Language = strings.TrimSpace(c.Language)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}
