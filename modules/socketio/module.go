// Package socketio contributes a subscriber kind that forwards hub events
// to a socket.io endpoint, so an external dashboard can watch pipeline
// progress live.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/composekit/internal/ctxlog"
	"github.com/vk/composekit/internal/registry"
	"github.com/vk/composekit/pkg/hub"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// forwarder owns the socket client for one subscriber instance.
type forwarder struct {
	io        *socket.Socket
	emitEvent string
}

// newForwarder builds the socket.io subscriber. Options:
//
//	url                  (required) full endpoint URL, path included
//	namespace            socket.io namespace, default "/"
//	emit_event           event name used for Emit, default "event"
//	insecure_skip_verify skip TLS certificate verification
func newForwarder(ctx context.Context, options map[string]any) (hub.Subscriber, io.Closer, error) {
	logger := ctxlog.FromContext(ctx).With("subscriber", "socketio")

	rawURL, _ := options["url"].(string)
	if rawURL == "" {
		return nil, nil, fmt.Errorf("socketio subscriber requires a 'url' option")
	}
	namespace, _ := options["namespace"].(string)
	if namespace == "" {
		namespace = "/"
	}
	emitEvent, _ := options["emit_event"].(string)
	if emitEvent == "" {
		emitEvent = "event"
	}
	insecure, _ := options["insecure_skip_verify"].(bool)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	sock := manager.Socket(namespace, opts)

	sock.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected.", "namespace", namespace, "sid", sock.Id())
	})
	sock.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("Connection failed.", "error", errs[0])
	})

	sock.Connect()

	f := &forwarder{io: sock, emitEvent: emitEvent}
	sub := func(ctx context.Context, ev hub.Event) {
		payload := map[string]any{
			"type":   ev.Type,
			"source": ev.Source,
			"time":   ev.Time.Format(time.RFC3339Nano),
			"data":   ev.Data,
		}
		f.io.Emit(f.emitEvent, payload)
	}
	return sub, f, nil
}

// Close disconnects the socket client.
func (f *forwarder) Close() error {
	f.io.Disconnect()
	return nil
}

// Register registers the subscriber kind.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSubscriberFactory("socketio", newForwarder)
}
