// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Openwall Authors

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment. Variables are bound
// through the `env` tags declared on [StructuredConfig] and its nested
// sections; values that cannot be converted to the field type surface as
// a wrapped error.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("reading environment config: %w", err)
	}

	return nil
}
