package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// KeyAction represents an action that can be triggered by keybindings
type KeyAction struct {
	name        string
	description string
	handler     func()
}

// KeyBinding maps a set of keys to a single action
type KeyBinding struct {
	action KeyAction
	keys   []tcell.Key // for special keys like arrows, pgdn, etc.
	runes  []rune      // for character keys
}

// Label renders the keys of the binding the way the help view lists them
func (b KeyBinding) Label() string {
	var parts []string
	for _, k := range b.keys {
		parts = append(parts, keyName(k))
	}
	for _, r := range b.runes {
		parts = append(parts, runeName(r))
	}
	return strings.Join(parts, " / ")
}

// KeyBindingManager manages all keybindings and dispatches events
type KeyBindingManager struct {
	bindings map[tcell.Key]KeyAction // special key -> action mapping
	runeMap  map[rune]KeyAction      // rune -> action mapping
	ordered  []KeyBinding
}

// NewKeyBindingManager creates a new key binding manager
func NewKeyBindingManager() *KeyBindingManager {
	return &KeyBindingManager{
		bindings: make(map[tcell.Key]KeyAction),
		runeMap:  make(map[rune]KeyAction),
	}
}

// RegisterKeyBinding registers a single key binding, later registrations win
func (km *KeyBindingManager) RegisterKeyBinding(action KeyAction, keys []tcell.Key, runes []rune) {
	for _, key := range keys {
		km.bindings[key] = action
	}
	for _, r := range runes {
		km.runeMap[r] = action
	}
	km.ordered = append(km.ordered, KeyBinding{action: action, keys: keys, runes: runes})
}

// HandleKey handles a keyboard event and returns true if it was consumed
func (km *KeyBindingManager) HandleKey(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyRune {
		if action, ok := km.bindings[event.Key()]; ok {
			action.handler()
			return true
		}
		return false
	}

	if action, ok := km.runeMap[event.Rune()]; ok {
		action.handler()
		return true
	}
	return false
}

// Bindings returns the registered bindings in registration order
func (km *KeyBindingManager) Bindings() []KeyBinding {
	return km.ordered
}

func keyName(k tcell.Key) string {
	switch k {
	case tcell.KeyLeft:
		return "←"
	case tcell.KeyRight:
		return "→"
	case tcell.KeyUp:
		return "↑"
	case tcell.KeyDown:
		return "↓"
	}
	if name, ok := tcell.KeyNames[k]; ok {
		return name
	}
	return "?"
}

func runeName(r rune) string {
	if r == ' ' {
		return "Space"
	}
	return string(r)
}
