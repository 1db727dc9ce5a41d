package config

import (
	"fmt"
	"os"
	"strings"
)

// Resolver expands environment references in configuration values.
type Resolver struct {
	lookup func(string) (string, bool)
}

// NewResolver creates a Resolver backed by the process environment.
func NewResolver() *Resolver {
	return &Resolver{lookup: os.LookupEnv}
}

// Resolve returns value with a leading "$NAME" or "${NAME}" replaced by the
// variable's content. Values without a leading "$" are returned unchanged.
func (r *Resolver) Resolve(value string) (string, error) {
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}
	name := strings.TrimPrefix(value, "$")
	if strings.HasPrefix(name, "{") {
		if !strings.HasSuffix(name, "}") {
			return "", fmt.Errorf("unterminated variable reference %q", value)
		}
		name = name[1 : len(name)-1]
	}
	if name == "" {
		return "", fmt.Errorf("empty variable reference %q", value)
	}
	resolved, ok := r.lookup(name)
	if !ok || resolved == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return resolved, nil
}
