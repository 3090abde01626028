package registry

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/composekit/internal/config"
	"github.com/vk/composekit/pkg/decorate"
	"github.com/vk/composekit/pkg/hub"
	"github.com/vk/composekit/pkg/tree"
)

func populated() *Registry {
	r := New()
	r.RegisterBehavior("Print", func(ctx context.Context, n *tree.Node) (any, error) { return nil, nil })
	r.RegisterPredicate("Always", func(any) bool { return true })
	r.RegisterAction("Echo", func(ctx context.Context, req any) (any, error) { return req, nil })
	r.RegisterAddOn("Noop", func(inner decorate.Behavior[any, any]) decorate.Behavior[any, any] { return inner })
	r.RegisterSubscriberFactory("print", func(ctx context.Context, options map[string]any) (hub.Subscriber, io.Closer, error) {
		return func(ctx context.Context, ev hub.Event) {}, nil, nil
	})
	return r
}

func TestRegister_DuplicatePanics(t *testing.T) {
	r := New()
	r.RegisterBehavior("Print", func(ctx context.Context, n *tree.Node) (any, error) { return nil, nil })
	assert.Panics(t, func() {
		r.RegisterBehavior("Print", func(ctx context.Context, n *tree.Node) (any, error) { return nil, nil })
	})
}

func TestLookups(t *testing.T) {
	r := populated()

	_, ok := r.Behavior("Print")
	assert.True(t, ok)
	_, ok = r.Behavior("Missing")
	assert.False(t, ok)
	_, ok = r.Predicate("Always")
	assert.True(t, ok)
	_, ok = r.Action("Echo")
	assert.True(t, ok)
	_, ok = r.AddOn("Noop")
	assert.True(t, ok)
	_, ok = r.SubscriberFactory("print")
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("complete model passes", func(t *testing.T) {
		r := populated()
		model := &config.Model{Pipelines: []*config.Pipeline{{
			Name: "p",
			Roots: []*config.NodeSpec{{
				Kind: "composite", Name: "root",
				Children: []*config.NodeSpec{{Kind: "leaf", Name: "a"}},
			}},
			Operations: []*config.Operation{{
				Name:        "walk",
				Resolutions: map[string]string{"leaf": "Print", "composite": "Print"},
				AddOns:      []string{"Noop"},
			}},
			Chains: []*config.ChainSpec{{
				Name:     "c",
				Handlers: []*config.HandlerSpec{{Name: "h", Predicate: "Always", Action: "Echo"}},
			}},
			Subscribers: []*config.SubscriberSpec{{Kind: "print", Name: "console"}},
		}}}
		require.NoError(t, r.Validate(ctx, model))
	})

	t.Run("unknown names are reported", func(t *testing.T) {
		r := populated()
		model := &config.Model{Pipelines: []*config.Pipeline{{
			Name: "p",
			Operations: []*config.Operation{{
				Name:        "walk",
				Resolutions: map[string]string{"leaf": "Missing"},
				AddOns:      []string{"AlsoMissing"},
			}},
			Chains: []*config.ChainSpec{{
				Name:     "c",
				Handlers: []*config.HandlerSpec{{Name: "h", Predicate: "Nope", Action: "Echo"}},
			}},
			Subscribers: []*config.SubscriberSpec{{Kind: "ghost"}},
		}}}
		err := r.Validate(ctx, model)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown behavior "Missing"`)
		assert.Contains(t, err.Error(), `unknown add-on "AlsoMissing"`)
		assert.Contains(t, err.Error(), `unknown predicate "Nope"`)
		assert.Contains(t, err.Error(), `unknown subscriber kind "ghost"`)
	})

	t.Run("malformed nodes are reported", func(t *testing.T) {
		r := populated()
		model := &config.Model{Pipelines: []*config.Pipeline{{
			Name: "p",
			Roots: []*config.NodeSpec{
				{Kind: "branch", Name: "odd"},
				{Kind: "leaf", Name: "full", Children: []*config.NodeSpec{{Kind: "leaf", Name: "x"}}},
			},
		}}}
		err := r.Validate(ctx, model)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown kind "branch"`)
		assert.Contains(t, err.Error(), `leaf node "full" cannot contain nodes`)
	})
}
