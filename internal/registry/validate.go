package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/composekit/internal/config"
	"github.com/vk/composekit/internal/ctxlog"
)

var validVariants = map[string]bool{"leaf": true, "composite": true}

// Validate checks the loaded model against the registry: every behavior,
// predicate, action, add-on, and subscriber kind a pipeline names must be
// registered, and node/variant names must be well-formed. A mismatch
// between config and code is reported before anything runs.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error

	for _, p := range model.Pipelines {
		for _, root := range p.Roots {
			errs = append(errs, validateNodeSpec(p.Name, root)...)
		}
		for _, op := range p.Operations {
			for variant, behavior := range op.Resolutions {
				if !validVariants[variant] {
					errs = append(errs, fmt.Errorf("pipeline %q: operation %q: unknown variant %q", p.Name, op.Name, variant))
				}
				if _, ok := r.behaviors[behavior]; !ok {
					errs = append(errs, fmt.Errorf("pipeline %q: operation %q: unknown behavior %q", p.Name, op.Name, behavior))
				}
			}
			for _, addOn := range op.AddOns {
				if _, ok := r.addOns[addOn]; !ok {
					errs = append(errs, fmt.Errorf("pipeline %q: operation %q: unknown add-on %q", p.Name, op.Name, addOn))
				}
			}
		}
		for _, c := range p.Chains {
			for _, h := range c.Handlers {
				if _, ok := r.predicates[h.Predicate]; !ok {
					errs = append(errs, fmt.Errorf("pipeline %q: chain %q: unknown predicate %q", p.Name, c.Name, h.Predicate))
				}
				if _, ok := r.actions[h.Action]; !ok {
					errs = append(errs, fmt.Errorf("pipeline %q: chain %q: unknown action %q", p.Name, c.Name, h.Action))
				}
			}
		}
		for _, s := range p.Subscribers {
			if _, ok := r.subscribers[s.Kind]; !ok {
				errs = append(errs, fmt.Errorf("pipeline %q: unknown subscriber kind %q", p.Name, s.Kind))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed: %w", errors.Join(errs...))
	}
	logger.Debug("Registry validation passed.", "pipelines", len(model.Pipelines))
	return nil
}

func validateNodeSpec(pipeline string, spec *config.NodeSpec) []error {
	var errs []error
	if !validVariants[spec.Kind] {
		errs = append(errs, fmt.Errorf("pipeline %q: node %q: unknown kind %q", pipeline, spec.Name, spec.Kind))
	}
	if spec.Kind == "leaf" && len(spec.Children) > 0 {
		errs = append(errs, fmt.Errorf("pipeline %q: leaf node %q cannot contain nodes", pipeline, spec.Name))
	}
	for _, child := range spec.Children {
		errs = append(errs, validateNodeSpec(pipeline, child)...)
	}
	return errs
}
