package app

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/vk/composekit/internal/config"
	"github.com/vk/composekit/internal/ctxlog"
	"github.com/vk/composekit/pkg/chain"
	"github.com/vk/composekit/pkg/decorate"
	"github.com/vk/composekit/pkg/dispatch"
	"github.com/vk/composekit/pkg/hub"
	"github.com/vk/composekit/pkg/tree"
)

var variantKinds = map[string]tree.Kind{
	"leaf":      tree.Leaf,
	"composite": tree.Composite,
}

// Run executes every loaded pipeline. Pipelines are independent, so they
// run concurrently up to the configured worker count; the composition
// inside each pipeline stays sequential and ordered.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.cfg.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.cfg.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	if len(a.model.Pipelines) == 0 {
		a.logger.Warn("No pipelines found, nothing to run.")
		return nil
	}

	g, runCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.WorkerCount)
	for _, p := range a.model.Pipelines {
		g.Go(func() error {
			if err := a.runPipeline(runCtx, p); err != nil {
				return fmt.Errorf("pipeline %q: %w", p.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// runPipeline executes one pipeline: attach subscribers, build the tree,
// dispatch every operation, then drive every chain with its feed.
func (a *App) runPipeline(ctx context.Context, p *config.Pipeline) error {
	logger := a.logger.With("pipeline", p.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	events := hub.New()
	closers, err := a.attachSubscribers(ctx, p, events)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			if cerr := c.Close(); cerr != nil {
				logger.Warn("Subscriber close failed.", "error", cerr)
			}
		}
	}()

	publish := func(evType string, data map[string]any) {
		pctx := ctx
		if a.cfg.NotifyTimeout > 0 {
			var cancel context.CancelFunc
			pctx, cancel = context.WithTimeout(ctx, a.cfg.NotifyTimeout)
			defer cancel()
		}
		d := events.Publish(pctx, hub.Event{Type: evType, Source: p.Name, Data: data})
		if len(d.Skipped) > 0 {
			logger.Warn("Event delivery was cut short.", "event", evType, "delivered", d.Delivered, "skipped", len(d.Skipped))
		}
	}

	publish(hub.EventPipelineStart, nil)

	roots, err := buildRoots(p)
	if err != nil {
		return err
	}
	logger.Debug("Node tree built.", "roots", len(roots))

	d, err := a.buildDispatcher(p)
	if err != nil {
		return err
	}

	for _, op := range p.Operations {
		publish(hub.EventOperationStart, map[string]any{"operation": op.Name})
		for _, root := range roots {
			if _, err := d.Dispatch(ctx, op.Name, root); err != nil {
				publish(hub.EventOperationFailed, map[string]any{"operation": op.Name, "error": err.Error()})
				return fmt.Errorf("operation %q: %w", op.Name, err)
			}
		}
		publish(hub.EventOperationDone, map[string]any{"operation": op.Name})
	}

	for _, spec := range p.Chains {
		c, err := a.buildChain(spec)
		if err != nil {
			return err
		}
		for _, req := range spec.Feed {
			res, handled, err := c.Handle(ctx, req)
			if err != nil {
				return fmt.Errorf("chain %q: %w", spec.Name, err)
			}
			if handled {
				publish(hub.EventChainHandled, map[string]any{"chain": spec.Name, "request": req, "result": res})
			} else {
				// An exhausted chain is a normal outcome; the event lets
				// subscribers observe dropped requests.
				publish(hub.EventChainUnhandled, map[string]any{"chain": spec.Name, "request": req})
			}
		}
	}

	publish(hub.EventPipelineComplete, nil)
	logger.Info("Pipeline finished.", "operations", len(p.Operations), "chains", len(p.Chains))
	return nil
}

func (a *App) attachSubscribers(ctx context.Context, p *config.Pipeline, events *hub.Hub) ([]io.Closer, error) {
	var closers []io.Closer
	for _, spec := range p.Subscribers {
		factory, ok := a.registry.SubscriberFactory(spec.Kind)
		if !ok {
			return closers, fmt.Errorf("unknown subscriber kind %q", spec.Kind)
		}
		sub, closer, err := factory(ctx, spec.Options)
		if err != nil {
			return closers, fmt.Errorf("subscriber %q: %w", spec.Name, err)
		}
		events.Subscribe(sub)
		if closer != nil {
			closers = append(closers, closer)
		}
	}
	return closers, nil
}

// buildDispatcher registers every operation's per-variant behaviors,
// wrapped in the operation's add-ons (last listed outermost).
func (a *App) buildDispatcher(p *config.Pipeline) (*dispatch.Dispatcher, error) {
	d := dispatch.New()
	for _, op := range p.Operations {
		var addOns []decorate.AddOn[any, any]
		for _, name := range op.AddOns {
			addOn, ok := a.registry.AddOn(name)
			if !ok {
				return nil, fmt.Errorf("operation %q: unknown add-on %q", op.Name, name)
			}
			addOns = append(addOns, addOn)
		}
		for variant, behaviorName := range op.Resolutions {
			kind, ok := variantKinds[variant]
			if !ok {
				return nil, fmt.Errorf("operation %q: unknown variant %q", op.Name, variant)
			}
			fn, ok := a.registry.Behavior(behaviorName)
			if !ok {
				return nil, fmt.Errorf("operation %q: unknown behavior %q", op.Name, behaviorName)
			}
			wrapped := decorate.Wrap(func(ctx context.Context, req any) (any, error) {
				return fn(ctx, req.(*tree.Node))
			}, addOns...)
			d.Register(op.Name, kind, func(ctx context.Context, n *tree.Node) (any, error) {
				return wrapped(ctx, n)
			})
		}
	}
	return d, nil
}

func (a *App) buildChain(spec *config.ChainSpec) (*chain.Chain[any, any], error) {
	c := chain.New[any, any]()
	for _, h := range spec.Handlers {
		predicate, ok := a.registry.Predicate(h.Predicate)
		if !ok {
			return nil, fmt.Errorf("chain %q: unknown predicate %q", spec.Name, h.Predicate)
		}
		action, ok := a.registry.Action(h.Action)
		if !ok {
			return nil, fmt.Errorf("chain %q: unknown action %q", spec.Name, h.Action)
		}
		c.Append(chain.Handler[any, any]{Name: h.Name, Match: predicate, Run: action})
	}
	return c, nil
}

// buildRoots turns a pipeline's node specs into a tree, surfacing the
// tree package's own structural errors for malformed definitions.
func buildRoots(p *config.Pipeline) ([]*tree.Node, error) {
	var roots []*tree.Node
	for _, spec := range p.Roots {
		n, err := buildNode(spec)
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	return roots, nil
}

func buildNode(spec *config.NodeSpec) (*tree.Node, error) {
	var n *tree.Node
	switch spec.Kind {
	case "leaf":
		n = tree.NewLeaf(spec.Payload)
	case "composite":
		n = tree.NewComposite()
	default:
		return nil, fmt.Errorf("node %q: unknown kind %q", spec.Name, spec.Kind)
	}
	n.Name = spec.Name

	for _, childSpec := range spec.Children {
		child, err := buildNode(childSpec)
		if err != nil {
			return nil, err
		}
		if err := n.AddChild(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}
