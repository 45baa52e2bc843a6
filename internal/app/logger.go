package app

import (
	"strings"

	"github.com/rowcache/rowcache/pkg/logger"
)

// InitLogging configures the global logger, defaulting to info when the
// configured level is blank.
func InitLogging(level string) error {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	return logger.Init(level)
}
