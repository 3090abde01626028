// Package print contributes stdout-oriented behaviors and a console event
// subscriber.
package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/composekit/internal/registry"
	"github.com/vk/composekit/pkg/hub"
	"github.com/vk/composekit/pkg/tree"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// depth returns how many ancestors n has, for indentation.
func depth(n *tree.Node) int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

func indent(d int) string {
	out := ""
	for i := 0; i < d; i++ {
		out += "  "
	}
	return out
}

// VisitLeaf prints a leaf's name and payload, indented by tree depth.
func VisitLeaf(ctx context.Context, n *tree.Node) (any, error) {
	fmt.Printf("%s- %s = %v\n", indent(depth(n)), n.Name, n.Payload())
	return nil, nil
}

// VisitComposite prints a composite's name and child count.
func VisitComposite(ctx context.Context, n *tree.Node) (any, error) {
	fmt.Printf("%s+ %s (%d)\n", indent(depth(n)), n.Name, len(n.Children()))
	return nil, nil
}

// newConsoleSubscriber builds a subscriber that writes one line per event.
// Options: "prefix" prepends a fixed string to every line.
func newConsoleSubscriber(ctx context.Context, options map[string]any) (hub.Subscriber, io.Closer, error) {
	prefix, _ := options["prefix"].(string)
	out := os.Stdout
	return func(ctx context.Context, ev hub.Event) {
		if len(ev.Data) > 0 {
			fmt.Fprintf(out, "%s[%s] %s %v\n", prefix, ev.Source, ev.Type, ev.Data)
			return
		}
		fmt.Fprintf(out, "%s[%s] %s\n", prefix, ev.Source, ev.Type)
	}, nil, nil
}

// Register registers the package's behaviors and subscriber kind.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBehavior("PrintLeaf", VisitLeaf)
	r.RegisterBehavior("PrintComposite", VisitComposite)
	r.RegisterSubscriberFactory("print", newConsoleSubscriber)
}
