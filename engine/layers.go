package engine

import "loom/registry"

// spriteIndex returns t's position within the sprite sub-range of
// e.targets (index 0 of that sub-range, not of e.targets itself), or
// -1 if t isn't present.
func (e *Engine) spriteIndex(t *registry.Target) int {
	for i := 1; i < len(e.targets); i++ {
		if e.targets[i] == t {
			return i - 1
		}
	}
	return -1
}

func (e *Engine) reassignLayerOrder() {
	for i, t := range e.targets {
		t.LayerOrder = i
	}
}

// spriteSlice returns an independent copy of the sprite sub-range,
// safe to mutate without aliasing e.targets' backing array.
func (e *Engine) spriteSlice() []*registry.Target {
	out := make([]*registry.Target, len(e.targets)-1)
	copy(out, e.targets[1:])
	return out
}

func (e *Engine) setSprites(sprites []*registry.Target) {
	e.targets = append([]*registry.Target{e.targets[0]}, sprites...)
	e.reassignLayerOrder()
}

func removeAt(sprites []*registry.Target, i int) []*registry.Target {
	out := make([]*registry.Target, 0, len(sprites)-1)
	out = append(out, sprites[:i]...)
	out = append(out, sprites[i+1:]...)
	return out
}

func insertAt(sprites []*registry.Target, i int, t *registry.Target) []*registry.Target {
	out := make([]*registry.Target, 0, len(sprites)+1)
	out = append(out, sprites[:i]...)
	out = append(out, t)
	out = append(out, sprites[i:]...)
	return out
}

// MoveToFront moves sprite to the end of the executable-target array
// (drawn last, i.e. on top).
func (e *Engine) MoveToFront(sprite *registry.Target) {
	i := e.spriteIndex(sprite)
	if i < 0 {
		return
	}
	sprites := removeAt(e.spriteSlice(), i)
	sprites = append(sprites, sprite)
	e.setSprites(sprites)
}

// MoveToBack moves sprite to the front of the sprite sub-range
// (drawn first, i.e. behind everything), still after the Stage.
func (e *Engine) MoveToBack(sprite *registry.Target) {
	i := e.spriteIndex(sprite)
	if i < 0 {
		return
	}
	sprites := removeAt(e.spriteSlice(), i)
	sprites = insertAt(sprites, 0, sprite)
	e.setSprites(sprites)
}

// MoveForwardLayers moves sprite n positions toward the front,
// clamping at the front.
func (e *Engine) MoveForwardLayers(sprite *registry.Target, n int) {
	e.shiftLayer(sprite, n)
}

// MoveBackwardLayers moves sprite n positions toward the back,
// clamping at the back.
func (e *Engine) MoveBackwardLayers(sprite *registry.Target, n int) {
	e.shiftLayer(sprite, -n)
}

func (e *Engine) shiftLayer(sprite *registry.Target, delta int) {
	i := e.spriteIndex(sprite)
	if i < 0 {
		return
	}
	all := e.spriteSlice()
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j > len(all)-1 {
		j = len(all) - 1
	}
	if i == j {
		return
	}
	all = removeAt(all, i)
	all = insertAt(all, j, sprite)
	e.setSprites(all)
}

// MoveBehind places sprite immediately before other in the executable
// target array.
func (e *Engine) MoveBehind(sprite, other *registry.Target) {
	i := e.spriteIndex(sprite)
	if i < 0 {
		return
	}
	sprites := removeAt(e.spriteSlice(), i)
	j := len(sprites)
	for idx, t := range sprites {
		if t == other {
			j = idx
			break
		}
	}
	sprites = insertAt(sprites, j, sprite)
	e.setSprites(sprites)
}
