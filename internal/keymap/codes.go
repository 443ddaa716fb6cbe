package keymap

// Linux evdev key codes (linux/input-event-codes.h). wl_keyboard reports
// these; the xkb keycode is the evdev code plus 8.
const (
	KeyEsc        uint32 = 1
	Key1          uint32 = 2
	Key2          uint32 = 3
	Key3          uint32 = 4
	Key4          uint32 = 5
	Key5          uint32 = 6
	Key6          uint32 = 7
	Key7          uint32 = 8
	Key8          uint32 = 9
	Key9          uint32 = 10
	Key0          uint32 = 11
	KeyMinus      uint32 = 12
	KeyEqual      uint32 = 13
	KeyBackspace  uint32 = 14
	KeyTab        uint32 = 15
	KeyQ          uint32 = 16
	KeyW          uint32 = 17
	KeyE          uint32 = 18
	KeyR          uint32 = 19
	KeyT          uint32 = 20
	KeyY          uint32 = 21
	KeyU          uint32 = 22
	KeyI          uint32 = 23
	KeyO          uint32 = 24
	KeyP          uint32 = 25
	KeyLeftBrace  uint32 = 26
	KeyRightBrace uint32 = 27
	KeyEnter      uint32 = 28
	KeyLeftCtrl   uint32 = 29
	KeyA          uint32 = 30
	KeyS          uint32 = 31
	KeyD          uint32 = 32
	KeyF          uint32 = 33
	KeyG          uint32 = 34
	KeyH          uint32 = 35
	KeyJ          uint32 = 36
	KeyK          uint32 = 37
	KeyL          uint32 = 38
	KeySemicolon  uint32 = 39
	KeyApostrophe uint32 = 40
	KeyGrave      uint32 = 41
	KeyLeftShift  uint32 = 42
	KeyBackslash  uint32 = 43
	KeyZ          uint32 = 44
	KeyX          uint32 = 45
	KeyC          uint32 = 46
	KeyV          uint32 = 47
	KeyB          uint32 = 48
	KeyN          uint32 = 49
	KeyM          uint32 = 50
	KeyComma      uint32 = 51
	KeyDot        uint32 = 52
	KeySlash      uint32 = 53
	KeyRightShift uint32 = 54
	KeyKPAsterisk uint32 = 55
	KeyLeftAlt    uint32 = 56
	KeySpace      uint32 = 57
	KeyCapsLock   uint32 = 58
	KeyF1         uint32 = 59
	KeyF2         uint32 = 60
	KeyF3         uint32 = 61
	KeyF4         uint32 = 62
	KeyF5         uint32 = 63
	KeyF6         uint32 = 64
	KeyF7         uint32 = 65
	KeyF8         uint32 = 66
	KeyF9         uint32 = 67
	KeyF10        uint32 = 68
	KeyNumLock    uint32 = 69
	KeyScrollLock uint32 = 70
	Key102nd      uint32 = 86
	KeyF11        uint32 = 87
	KeyF12        uint32 = 88
	KeyKPEnter    uint32 = 96
	KeyRightCtrl  uint32 = 97
	KeyRightAlt   uint32 = 100
	KeyHome       uint32 = 102
	KeyUp         uint32 = 103
	KeyPageUp     uint32 = 104
	KeyLeft       uint32 = 105
	KeyRight      uint32 = 106
	KeyEnd        uint32 = 107
	KeyDown       uint32 = 108
	KeyPageDown   uint32 = 109
	KeyInsert     uint32 = 110
	KeyDelete     uint32 = 111
	KeyLeftMeta   uint32 = 125
	KeyRightMeta  uint32 = 126
)

// XkbCode converts an evdev code to the xkb keycode space.
func XkbCode(evdev uint32) uint32 {
	return evdev + 8
}

// symbol is what one key types. keysym is the xkb name for keys that
// produce no text, such as dead keys.
type symbol struct {
	lower, upper string
	keysym       string
}

// printable maps keys that produce text on a US layout. It is used when the
// compositor keymap carries no key definitions.
var printable = map[uint32]symbol{
	Key1:          {lower: "1", upper: "!"},
	Key2:          {lower: "2", upper: "@"},
	Key3:          {lower: "3", upper: "#"},
	Key4:          {lower: "4", upper: "$"},
	Key5:          {lower: "5", upper: "%"},
	Key6:          {lower: "6", upper: "^"},
	Key7:          {lower: "7", upper: "&"},
	Key8:          {lower: "8", upper: "*"},
	Key9:          {lower: "9", upper: "("},
	Key0:          {lower: "0", upper: ")"},
	KeyMinus:      {lower: "-", upper: "_"},
	KeyEqual:      {lower: "=", upper: "+"},
	KeyQ:          {lower: "q", upper: "Q"},
	KeyW:          {lower: "w", upper: "W"},
	KeyE:          {lower: "e", upper: "E"},
	KeyR:          {lower: "r", upper: "R"},
	KeyT:          {lower: "t", upper: "T"},
	KeyY:          {lower: "y", upper: "Y"},
	KeyU:          {lower: "u", upper: "U"},
	KeyI:          {lower: "i", upper: "I"},
	KeyO:          {lower: "o", upper: "O"},
	KeyP:          {lower: "p", upper: "P"},
	KeyLeftBrace:  {lower: "[", upper: "{"},
	KeyRightBrace: {lower: "]", upper: "}"},
	KeyA:          {lower: "a", upper: "A"},
	KeyS:          {lower: "s", upper: "S"},
	KeyD:          {lower: "d", upper: "D"},
	KeyF:          {lower: "f", upper: "F"},
	KeyG:          {lower: "g", upper: "G"},
	KeyH:          {lower: "h", upper: "H"},
	KeyJ:          {lower: "j", upper: "J"},
	KeyK:          {lower: "k", upper: "K"},
	KeyL:          {lower: "l", upper: "L"},
	KeySemicolon:  {lower: ";", upper: ":"},
	KeyApostrophe: {lower: "'", upper: "\""},
	KeyGrave:      {lower: "`", upper: "~"},
	KeyBackslash:  {lower: "\\", upper: "|"},
	KeyZ:          {lower: "z", upper: "Z"},
	KeyX:          {lower: "x", upper: "X"},
	KeyC:          {lower: "c", upper: "C"},
	KeyV:          {lower: "v", upper: "V"},
	KeyB:          {lower: "b", upper: "B"},
	KeyN:          {lower: "n", upper: "N"},
	KeyM:          {lower: "m", upper: "M"},
	KeyComma:      {lower: ",", upper: "<"},
	KeyDot:        {lower: ".", upper: ">"},
	KeySlash:      {lower: "/", upper: "?"},
	KeySpace:      {lower: " ", upper: " "},
	KeyKPAsterisk: {lower: "*", upper: "*"},
}

// named maps non-printing keys to their logical names.
var named = map[uint32]string{
	KeyEsc:        "Escape",
	KeyBackspace:  "Backspace",
	KeyTab:        "Tab",
	KeyEnter:      "Enter",
	KeyKPEnter:    "Enter",
	KeyLeftCtrl:   "Control",
	KeyRightCtrl:  "Control",
	KeyLeftShift:  "Shift",
	KeyRightShift: "Shift",
	KeyLeftAlt:    "Alt",
	KeyRightAlt:   "Alt",
	KeyLeftMeta:   "Super",
	KeyRightMeta:  "Super",
	KeyCapsLock:   "CapsLock",
	KeyNumLock:    "NumLock",
	KeyScrollLock: "ScrollLock",
	KeyF1:         "F1",
	KeyF2:         "F2",
	KeyF3:         "F3",
	KeyF4:         "F4",
	KeyF5:         "F5",
	KeyF6:         "F6",
	KeyF7:         "F7",
	KeyF8:         "F8",
	KeyF9:         "F9",
	KeyF10:        "F10",
	KeyF11:        "F11",
	KeyF12:        "F12",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyPageUp:     "PageUp",
	KeyPageDown:   "PageDown",
	KeyInsert:     "Insert",
	KeyDelete:     "Delete",
	KeyUp:         "ArrowUp",
	KeyDown:       "ArrowDown",
	KeyLeft:       "ArrowLeft",
	KeyRight:      "ArrowRight",
}

// nonRepeating keys never auto-repeat.
var nonRepeating = map[uint32]bool{
	KeyLeftCtrl:   true,
	KeyRightCtrl:  true,
	KeyLeftShift:  true,
	KeyRightShift: true,
	KeyLeftAlt:    true,
	KeyRightAlt:   true,
	KeyLeftMeta:   true,
	KeyRightMeta:  true,
	KeyCapsLock:   true,
	KeyNumLock:    true,
	KeyScrollLock: true,
}
