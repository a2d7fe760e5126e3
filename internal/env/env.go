// Package env names the deployment a server runs in.
package env

import (
	"fmt"
	"strings"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

func (e Environment) IsDevelopment() bool { return e == Development }
func (e Environment) IsProduction() bool  { return e == Production }

// UnmarshalText accepts the full names and the dev/prod shorthands.
func (e *Environment) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "development", "dev":
		*e = Development
	case "production", "prod":
		*e = Production
	default:
		return fmt.Errorf("invalid environment %q (valid: development, production)", text)
	}
	return nil
}
