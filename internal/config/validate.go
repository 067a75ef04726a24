package config

import (
	"errors"
	"fmt"
)

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate reports every setting that is out of range.
func (c *Config) Validate() error {
	var errs []error

	if c.Workers < 1 || c.Workers > maxWorkers {
		errs = append(errs, fmt.Errorf("workers must be between 1 and %d, got %d", maxWorkers, c.Workers))
	}
	if c.AdmissionLimit < 1 {
		errs = append(errs, fmt.Errorf("admission_limit must be at least 1, got %d", c.AdmissionLimit))
	} else if c.Workers >= 1 && c.AdmissionLimit > c.Workers {
		errs = append(errs, fmt.Errorf("admission_limit (%d) must not exceed workers (%d)", c.AdmissionLimit, c.Workers))
	}
	if c.Language == "" {
		errs = append(errs, errors.New("language must be set"))
	}
	if c.PageSegMode < 0 || c.PageSegMode > maxPageSegMode {
		errs = append(errs, fmt.Errorf("page_seg_mode must be between 0 and %d, got %d", maxPageSegMode, c.PageSegMode))
	}
	if !logLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel))
	}

	return errors.Join(errs...)
}
