// Package wayland lists compositor globals through the go-wayland client,
// independently of the layershell engine's own connection.
package wayland

import (
	"context"
	"fmt"
	"sort"

	"github.com/bnema/waylayer/internal/logger"
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// Global is one registry entry advertised by the compositor
type Global struct {
	Name      uint32 `json:"name" yaml:"name"`
	Interface string `json:"interface" yaml:"interface"`
	Version   uint32 `json:"version" yaml:"version"`
}

// ListGlobals connects to the compositor, collects the registry after one
// roundtrip and disconnects. An empty socket uses WAYLAND_DISPLAY.
func ListGlobals(ctx context.Context, socket string) ([]Global, error) {
	display, err := client.Connect(socket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland display: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Unblocks Dispatch
			_ = display.Context().Close()
		case <-done:
		}
	}()
	defer func() { _ = display.Context().Close() }()

	registry, err := display.GetRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}

	var globals []Global
	registry.SetGlobalHandler(func(e client.RegistryGlobalEvent) {
		globals = append(globals, Global{Name: e.Name, Interface: e.Interface, Version: e.Version})
	})
	registry.SetGlobalRemoveHandler(func(e client.RegistryGlobalRemoveEvent) {
		for i, g := range globals {
			if g.Name == e.Name {
				globals = append(globals[:i], globals[i+1:]...)
				break
			}
		}
	})

	if err := roundtrip(display); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	sort.Slice(globals, func(i, j int) bool { return globals[i].Name < globals[j].Name })
	logger.Debugf("compositor advertised %d globals", len(globals))
	return globals, nil
}

// roundtrip dispatches until the server answers a sync request
func roundtrip(display *client.Display) error {
	callback, err := display.Sync()
	if err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}
	defer func() { _ = callback.Destroy() }()

	synced := false
	callback.SetDoneHandler(func(client.CallbackDoneEvent) { synced = true })
	for !synced {
		if err := display.Context().Dispatch(); err != nil {
			return fmt.Errorf("failed to dispatch: %w", err)
		}
	}
	return nil
}
