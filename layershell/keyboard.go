package layershell

import (
	"time"

	"github.com/bnema/waylayer/internal/keymap"
	"github.com/bnema/waylayer/internal/reactor"
	"github.com/bnema/waylayer/internal/wl"
	"golang.org/x/sys/unix"
)

type keyRepeat struct {
	token  reactor.Token
	armed  bool
	code   uint32
	target ID
}

func (st *WindowState) installKeyboard() {
	kb, err := st.seat.GetKeyboard()
	if err != nil {
		st.log.Warn("failed to get keyboard", "error", err)
		return
	}
	st.keyboard = kb
	kb.SetHandlers(wl.KeyboardHandlers{
		Keymap:     st.onKeymap,
		Enter:      st.onKeyboardEnter,
		Leave:      st.onKeyboardLeave,
		Key:        st.onKey,
		Modifiers:  st.onModifiers,
		RepeatInfo: st.onRepeatInfo,
	})
	st.installTextInput()
}

func (st *WindowState) releaseKeyboard() {
	st.cancelRepeat()
	st.releaseTextInput()
	if st.keyboard == nil {
		return
	}
	if st.seatVersion >= 3 {
		_ = st.keyboard.Release()
	} else {
		st.ctx.Unregister(st.keyboard)
	}
	st.keyboard = nil
}

func (st *WindowState) onKeymap(ev wl.KeyboardKeymapEvent) {
	if ev.Format != wl.KeymapFormatXkbV1 {
		st.log.Warn("unsupported keymap format", "format", ev.Format)
		if ev.Fd >= 0 {
			closeFd(ev.Fd)
		}
		return
	}
	if err := st.translator.LoadFd(ev.Fd, ev.Size); err != nil {
		st.log.Warn("failed to load keymap", "error", err)
	}
}

func (st *WindowState) onKeyboardEnter(ev wl.KeyboardEnterEvent) {
	st.cancelRepeat()
	st.updateCurrentSurface(ev.Surface)
}

func (st *WindowState) onKeyboardLeave(ev wl.KeyboardLeaveEvent) {
	st.cancelRepeat()
	id := st.idOf(ev.Surface)
	st.translator.Reset()
	st.push(id, ModifiersChanged{})
	st.push(id, Unfocus{})
}

func (st *WindowState) onKey(ev wl.KeyboardKeyEvent) {
	id := st.idOf(st.currentSurface)
	pressed := ev.State == wl.KeyStatePressed
	st.push(id, KeyboardInput{Key: st.translator.Translate(ev.Key), Pressed: pressed})

	switch {
	case pressed && keymap.IsRepeatKey(ev.Key) && st.repeatInfo.Enabled():
		st.armRepeat(ev.Key, id)
	case !pressed && st.repeat.armed && st.repeat.code == ev.Key:
		st.cancelRepeat()
	}
}

func (st *WindowState) onModifiers(ev wl.KeyboardModifiersEvent) {
	mods := st.translator.UpdateModifiers(ev.ModsDepressed, ev.ModsLatched, ev.ModsLocked)
	st.push(st.idOf(st.currentSurface), ModifiersChanged{Modifiers: mods})
}

func (st *WindowState) onRepeatInfo(ev wl.KeyboardRepeatInfoEvent) {
	st.repeatInfo = keymap.NewRepeatInfo(ev.Rate, ev.Delay)
	if !st.repeatInfo.Enabled() {
		st.cancelRepeat()
	}
}

// armRepeat replaces any running repeat. The first repeat fires after the
// delay, the next ones every 1/rate seconds.
func (st *WindowState) armRepeat(code uint32, target ID) {
	st.cancelRepeat()
	gap := st.repeatInfo.Gap()
	st.repeat = keyRepeat{armed: true, code: code, target: target}
	st.repeat.token = st.loop.AddTimer(st.repeatInfo.Delay, func(time.Time) reactor.Action {
		key := st.translator.Translate(code)
		st.push(target, KeyboardInput{Key: key, Pressed: true, Repeat: true})
		return reactor.After(gap)
	})
}

func (st *WindowState) cancelRepeat() {
	if !st.repeat.armed {
		return
	}
	st.loop.RemoveTimer(st.repeat.token)
	st.repeat = keyRepeat{}
}

// Repeating reports whether a key repeat timer is armed.
func (st *WindowState) Repeating() bool { return st.repeat.armed }

func closeFd(fd int) {
	_ = unix.Close(fd)
}
