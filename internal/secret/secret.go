// Package secret resolves credential references from the config file.
// A value may be a literal, "env:NAME" to read an environment variable,
// or "file:/path" to read the first line of a file, so secrets can be
// kept out of the config document without changing its shape.
package secret

import (
	"fmt"
	"os"
	"strings"
)

type Provider interface {
	Resolve(ref string) (string, error)
}

// Resolver is the default Provider chain: env, file, then literal.
type Resolver struct{}

func (Resolver) Resolve(ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "env:"):
		name := strings.TrimPrefix(ref, "env:")
		value, ok := os.LookupEnv(name)
		if !ok {
			return "", fmt.Errorf("environment variable %s is not set", name)
		}

		return value, nil

	case strings.HasPrefix(ref, "file:"):
		data, err := os.ReadFile(strings.TrimPrefix(ref, "file:"))
		if err != nil {
			return "", fmt.Errorf("failed to read secret file: %w", err)
		}

		return strings.TrimSpace(string(data)), nil

	default:
		return ref, nil
	}
}
