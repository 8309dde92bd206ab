package engine

// SetKeyState records a key's pressed state and, on a transition into
// the pressed state, fires KeyPressed hats for both the specific key
// name and the "any" pseudo-key.
func (e *Engine) SetKeyState(name string, pressed bool) {
	wasPressed := e.keyMap[name]
	e.keyMap[name] = pressed
	e.recomputeAnyKeyPressed()
	if pressed && !wasPressed {
		e.StartHats(KeyPressed, map[string]string{"KEY_OPTION": name}, nil)
		e.StartHats(KeyPressed, map[string]string{"KEY_OPTION": "any"}, nil)
	}
}

func (e *Engine) recomputeAnyKeyPressed() {
	any := false
	for _, held := range e.keyMap {
		if held {
			any = true
			break
		}
	}
	e.anyKeyPressed = any
}

// KeyPressed reports whether the named key is currently held; "any"
// reports whether some key is held.
func (e *Engine) KeyPressed(name string) bool {
	if name == "any" {
		return e.anyKeyPressed
	}
	return e.keyMap[name]
}
