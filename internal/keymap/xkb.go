package keymap

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	keycodeLine = regexp.MustCompile(`<([^>\s]+)>\s*=\s*(\d+)\s*;`)
	aliasLine   = regexp.MustCompile(`alias\s+<([^>\s]+)>\s*=\s*<([^>\s]+)>\s*;`)
	keyBlock    = regexp.MustCompile(`key\s*<([^>\s]+)>\s*\{([^}]*)\}`)
)

// parseKeymap reads the key definitions of a compiled xkb keymap, as sent
// by compositors, and returns the first group's first two levels keyed by
// evdev code. Keymaps made only of includes yield nil.
func parseKeymap(keymap string) map[uint32]symbol {
	keycodes := section(keymap, "xkb_keycodes")
	symbols := section(keymap, "xkb_symbols")
	if keycodes == "" || symbols == "" {
		return nil
	}

	codes := make(map[string]uint32)
	for _, m := range keycodeLine.FindAllStringSubmatch(keycodes, -1) {
		n, err := strconv.ParseUint(m[2], 10, 32)
		if err != nil || n < 8 {
			continue
		}
		codes[m[1]] = uint32(n) - 8
	}
	for _, m := range aliasLine.FindAllStringSubmatch(keycodes, -1) {
		if code, ok := codes[m[2]]; ok {
			codes[m[1]] = code
		}
	}

	var table map[uint32]symbol
	for _, m := range keyBlock.FindAllStringSubmatch(symbols, -1) {
		code, ok := codes[m[1]]
		if !ok {
			continue
		}
		sym, ok := newSymbol(groupOne(m[2]))
		if !ok {
			continue
		}
		if table == nil {
			table = make(map[uint32]symbol)
		}
		table[code] = sym
	}
	return table
}

// section returns the body of the named top level block.
func section(keymap, name string) string {
	i := strings.Index(keymap, name)
	if i < 0 {
		return ""
	}
	open := strings.IndexByte(keymap[i:], '{')
	if open < 0 {
		return ""
	}
	start := i + open + 1
	depth := 1
	for j := start; j < len(keymap); j++ {
		switch keymap[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return keymap[start:j]
			}
		}
	}
	return ""
}

// groupOne returns the keysyms of the first group in a key body, either
// `[ a, A ]` or `symbols[Group1]= [ a, A ]`.
func groupOne(body string) []string {
	start := -1
	if i := strings.Index(body, "symbols["); i >= 0 {
		eq := strings.IndexByte(body[i:], '=')
		if eq < 0 {
			return nil
		}
		if open := strings.IndexByte(body[i+eq:], '['); open >= 0 {
			start = i + eq + open
		}
	} else {
		for i := 0; i < len(body); i++ {
			if body[i] == '[' && !indexes(body[:i]) {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return nil
	}
	end := strings.IndexByte(body[start:], ']')
	if end < 0 {
		return nil
	}
	var levels []string
	for _, f := range strings.Split(body[start+1:start+end], ",") {
		levels = append(levels, strings.TrimSpace(f))
	}
	return levels
}

// indexes reports whether a '[' after prefix indexes a field, as in
// type[Group1].
func indexes(prefix string) bool {
	prefix = strings.TrimRight(prefix, " \t\n")
	if prefix == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(prefix)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func newSymbol(levels []string) (symbol, bool) {
	if len(levels) == 0 || levels[0] == "" || levels[0] == "NoSymbol" {
		return symbol{}, false
	}
	sym := symbol{lower: keysymText(levels[0])}
	if sym.lower == "" {
		sym.keysym = levels[0]
	}
	if len(levels) > 1 && levels[1] != "NoSymbol" {
		sym.upper = keysymText(levels[1])
	} else {
		sym.upper = strings.ToUpper(sym.lower)
	}
	return sym, true
}

// keysymText returns the text an xkb keysym name types, or "" for keysyms
// that type nothing.
func keysymText(name string) string {
	if text, ok := keysymNames[name]; ok {
		return text
	}
	if utf8.RuneCountInString(name) == 1 {
		return name
	}
	if len(name) >= 5 && name[0] == 'U' {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil && unicode.IsPrint(rune(v)) {
			return string(rune(v))
		}
	}
	if strings.HasPrefix(name, "0x") {
		if v, err := strconv.ParseUint(name[2:], 16, 32); err == nil {
			switch {
			case v >= 0x01000000 && unicode.IsPrint(rune(v-0x01000000)):
				return string(rune(v - 0x01000000))
			case v >= 0x20 && v <= 0xff && unicode.IsPrint(rune(v)):
				return string(rune(v))
			}
		}
	}
	return ""
}

// keysymNames covers the named keysyms of the ASCII and Latin-1 ranges
// used by common layouts.
var keysymNames = map[string]string{
	"space":          " ",
	"exclam":         "!",
	"quotedbl":       "\"",
	"numbersign":     "#",
	"dollar":         "$",
	"percent":        "%",
	"ampersand":      "&",
	"apostrophe":     "'",
	"parenleft":      "(",
	"parenright":     ")",
	"asterisk":       "*",
	"plus":           "+",
	"comma":          ",",
	"minus":          "-",
	"period":         ".",
	"slash":          "/",
	"colon":          ":",
	"semicolon":      ";",
	"less":           "<",
	"equal":          "=",
	"greater":        ">",
	"question":       "?",
	"at":             "@",
	"bracketleft":    "[",
	"backslash":      "\\",
	"bracketright":   "]",
	"asciicircum":    "^",
	"underscore":     "_",
	"grave":          "`",
	"braceleft":      "{",
	"bar":            "|",
	"braceright":     "}",
	"asciitilde":     "~",
	"exclamdown":     "¡",
	"sterling":       "£",
	"currency":       "¤",
	"yen":            "¥",
	"section":        "§",
	"diaeresis":      "¨",
	"degree":         "°",
	"twosuperior":    "²",
	"threesuperior":  "³",
	"acute":          "´",
	"mu":             "µ",
	"onesuperior":    "¹",
	"guillemotleft":  "«",
	"guillemotright": "»",
	"questiondown":   "¿",
	"agrave":         "à",
	"Agrave":         "À",
	"aacute":         "á",
	"acircumflex":    "â",
	"adiaeresis":     "ä",
	"Adiaeresis":     "Ä",
	"aring":          "å",
	"Aring":          "Å",
	"ae":             "æ",
	"AE":             "Æ",
	"ccedilla":       "ç",
	"Ccedilla":       "Ç",
	"egrave":         "è",
	"Egrave":         "È",
	"eacute":         "é",
	"Eacute":         "É",
	"ecircumflex":    "ê",
	"ediaeresis":     "ë",
	"icircumflex":    "î",
	"idiaeresis":     "ï",
	"ntilde":         "ñ",
	"Ntilde":         "Ñ",
	"ocircumflex":    "ô",
	"odiaeresis":     "ö",
	"Odiaeresis":     "Ö",
	"oslash":         "ø",
	"Ooblique":       "Ø",
	"ugrave":         "ù",
	"Ugrave":         "Ù",
	"ucircumflex":    "û",
	"udiaeresis":     "ü",
	"Udiaeresis":     "Ü",
	"ssharp":         "ß",
	"EuroSign":       "€",
	"KP_Multiply":    "*",
	"KP_Divide":      "/",
	"KP_Add":         "+",
	"KP_Subtract":    "-",
	"KP_Decimal":     ".",
}
