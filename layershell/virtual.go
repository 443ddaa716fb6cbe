package layershell

import (
	"fmt"
	"time"

	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/reactor"
	"github.com/bnema/waylayer/internal/wl"
)

// virtualKeyboardReady creates the virtual keyboard and uploads the default
// keymap on first use.
func (st *WindowState) virtualKeyboardReady() (*protocols.VirtualKeyboard, error) {
	if st.virtualKeyboard != nil {
		return st.virtualKeyboard, nil
	}
	if st.virtualKeyboardManager == nil {
		return nil, fmt.Errorf("%s not available", protocols.VirtualKeyboardManagerInterface)
	}
	if st.seat == nil {
		return nil, fmt.Errorf("no seat")
	}
	vk, err := st.virtualKeyboardManager.CreateVirtualKeyboard(st.seat)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual keyboard: %w", err)
	}
	file, size, err := protocols.CreateDefaultKeymap()
	if err != nil {
		_ = vk.Destroy()
		return nil, fmt.Errorf("failed to create keymap: %w", err)
	}
	defer file.Close()
	if err := vk.Keymap(wl.KeymapFormatXkbV1, int(file.Fd()), size); err != nil {
		_ = vk.Destroy()
		return nil, fmt.Errorf("failed to upload keymap: %w", err)
	}
	st.virtualKeyboard = vk
	return vk, nil
}

// VirtualKey presses an evdev key now and releases it after delay.
func (st *WindowState) VirtualKey(key uint32, delay time.Duration) error {
	vk, err := st.virtualKeyboardReady()
	if err != nil {
		return err
	}
	if err := vk.Key(eventTime(st.now()), key, wl.KeyStatePressed); err != nil {
		return fmt.Errorf("failed to press key %d: %w", key, err)
	}
	st.loop.AddTimer(delay, func(now time.Time) reactor.Action {
		if err := vk.Key(eventTime(now), key, wl.KeyStateReleased); err != nil {
			st.log.Warn("failed to release virtual key", "key", key, "error", err)
		}
		return reactor.Drop
	})
	return nil
}

// eventTime is the wrapping millisecond timestamp input events carry.
func eventTime(t time.Time) uint32 {
	return uint32(t.UnixMilli())
}
