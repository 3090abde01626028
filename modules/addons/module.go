// Package addons exposes the stock decoration add-ons to pipeline files
// under their config names.
package addons

import (
	"github.com/vk/composekit/internal/registry"
	"github.com/vk/composekit/pkg/decorate"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the stock add-ons.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAddOn("Logging", decorate.Logging[any, any]("operation"))
	r.RegisterAddOn("Timing", decorate.Timing[any, any]("operation"))
	r.RegisterAddOn("Recovery", decorate.Recovery[any, any]())
}
