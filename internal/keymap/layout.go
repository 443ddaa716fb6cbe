package keymap

import (
	"regexp"
	"strings"
)

// Physical key remapping onto the US table: on AZERTY the key in the US
// "q" position types "a", and so on.
var azertyToQwerty = map[uint32]uint32{
	KeyQ:         KeyA,
	KeyW:         KeyZ,
	KeyA:         KeyQ,
	KeyZ:         KeyW,
	KeySemicolon: KeyM,
	KeyM:         KeyComma,
}

var qwertzToQwerty = map[uint32]uint32{
	KeyY: KeyZ,
	KeyZ: KeyY,
}

var layoutMappings = map[string]map[uint32]uint32{
	"fr": azertyToQwerty,
	"be": azertyToQwerty,
	"de": qwertzToQwerty,
	"ch": qwertzToQwerty,
}

var (
	symbolsInclude = regexp.MustCompile(`xkb_symbols[^{]*\{\s*include\s+"([^"]+)"`)
	symbolsName    = regexp.MustCompile(`xkb_symbols\s+"([^"]+)"`)
)

// Layout extracts the primary layout name from an xkb keymap, e.g. "fr"
// from `include "pc+fr+inet(evdev)"`. It returns "us" when nothing matches.
func Layout(keymap string) string {
	var symbols string
	if m := symbolsInclude.FindStringSubmatch(keymap); m != nil {
		symbols = m[1]
	} else if m := symbolsName.FindStringSubmatch(keymap); m != nil {
		symbols = m[1]
	}
	for _, part := range strings.Split(symbols, "+") {
		if i := strings.IndexAny(part, "(:"); i >= 0 {
			part = part[:i]
		}
		switch part {
		case "", "pc", "inet", "evdev", "group", "level3", "compose":
			continue
		}
		return part
	}
	return "us"
}

func remap(layout string, code uint32) uint32 {
	mapping := layoutMappings[layout]
	if mapping == nil {
		return code
	}
	if translated, ok := mapping[code]; ok {
		return translated
	}
	return code
}
