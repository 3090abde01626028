package config

import "context"

// Loader is the interface for a format-specific configuration loader. It
// reads pipeline definitions from the given paths and translates them into
// the format-agnostic model, binding all payloads to native Go values.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
