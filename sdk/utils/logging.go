// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("dataspace/utils")

// SetupLogging applies level to every logger of the SDK. Unknown levels are
// rejected so that a typo in LOG_LEVEL does not silence errors.
func SetupLogging(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "":
		level = "info"
	case "warning":
		level = "warn"
	case "critical":
		level = "error"
	}
	lvl, err := logging.LevelFromString(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logging.SetAllLoggers(lvl)
	return nil
}
