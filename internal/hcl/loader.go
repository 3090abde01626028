package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/composekit/internal/config"
	"github.com/vk/composekit/internal/ctxlog"
	"github.com/vk/composekit/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from the given paths and translates
// the pipeline blocks into the format-agnostic model, in file order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var filePaths []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		filePaths = append(filePaths, found...)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl pipeline files found.", "paths", paths)
	}

	parser := hclparse.NewParser()
	model := &config.Model{}

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var fs FileSchema
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &fs); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", filePath, diags)
		}

		for _, pb := range fs.Pipelines {
			pipeline, err := l.translatePipeline(pb)
			if err != nil {
				return nil, fmt.Errorf("pipeline %q in %s: %w", pb.Name, filePath, err)
			}
			model.Pipelines = append(model.Pipelines, pipeline)
		}
		logger.Debug("Loaded pipeline definitions from file.", "file", filePath)
	}

	logger.Info("Configuration loaded.", "pipelines", len(model.Pipelines))
	return model, nil
}

func (l *Loader) translatePipeline(pb *PipelineBlock) (*config.Pipeline, error) {
	p := &config.Pipeline{Name: pb.Name}

	for _, nb := range pb.Nodes {
		spec, err := l.translateNode(nb)
		if err != nil {
			return nil, err
		}
		p.Roots = append(p.Roots, spec)
	}

	for _, ob := range pb.Operations {
		op := &config.Operation{
			Name:        ob.Name,
			Resolutions: make(map[string]string),
			AddOns:      ob.With,
		}
		if ob.Leaf != "" {
			op.Resolutions["leaf"] = ob.Leaf
		}
		if ob.Composite != "" {
			op.Resolutions["composite"] = ob.Composite
		}
		if len(op.Resolutions) == 0 {
			return nil, fmt.Errorf("operation %q binds no variants", ob.Name)
		}
		p.Operations = append(p.Operations, op)
	}

	for _, cb := range pb.Chains {
		spec := &config.ChainSpec{Name: cb.Name}
		for _, hb := range cb.Handlers {
			spec.Handlers = append(spec.Handlers, &config.HandlerSpec{
				Name:      hb.Name,
				Predicate: hb.Predicate,
				Action:    hb.Action,
			})
		}
		feed, err := l.evalList(cb.Feed)
		if err != nil {
			return nil, fmt.Errorf("chain %q feed: %w", cb.Name, err)
		}
		spec.Feed = feed
		p.Chains = append(p.Chains, spec)
	}

	for _, sb := range pb.Subscribers {
		options, err := l.evalMap(sb.Options)
		if err != nil {
			return nil, fmt.Errorf("subscriber %q options: %w", sb.Name, err)
		}
		p.Subscribers = append(p.Subscribers, &config.SubscriberSpec{
			Kind:    sb.Kind,
			Name:    sb.Name,
			Options: options,
		})
	}

	return p, nil
}

func (l *Loader) translateNode(nb *NodeBlock) (*config.NodeSpec, error) {
	spec := &config.NodeSpec{Kind: nb.Kind, Name: nb.Name}

	payload, err := l.eval(nb.Payload)
	if err != nil {
		return nil, fmt.Errorf("node %q payload: %w", nb.Name, err)
	}
	spec.Payload = payload

	for _, child := range nb.Children {
		cs, err := l.translateNode(child)
		if err != nil {
			return nil, err
		}
		spec.Children = append(spec.Children, cs)
	}
	return spec, nil
}

// eval evaluates a constant expression into a native Go value. A nil or
// absent expression yields nil.
func (l *Loader) eval(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return goValue(val)
}

func (l *Loader) evalList(expr hcl.Expression) ([]any, error) {
	v, err := l.eval(expr)
	if err != nil || v == nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	return list, nil
}

func (l *Loader) evalMap(expr hcl.Expression) (map[string]any, error) {
	v, err := l.eval(expr)
	if err != nil || v == nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", v)
	}
	return m, nil
}
