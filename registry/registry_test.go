package registry

import (
	"testing"

	"loom/types"
)

func TestListIsOneIndexed(t *testing.T) {
	l := NewList("l1", "mylist")
	l.Append(types.NewInt(1))
	l.Append(types.NewInt(2))
	l.Append(types.NewInt(3))

	got, ok := l.Get(1)
	if !ok || !types.Equal(got, types.NewInt(1)) {
		t.Fatalf("Get(1) = (%v, %v), want (1, true)", got, ok)
	}
	if _, ok := l.Get(0); ok {
		t.Fatalf("Get(0) should be out of range for a 1-indexed list")
	}
	if _, ok := l.Get(4); ok {
		t.Fatalf("Get(4) should be out of range for a 3-element list")
	}
}

func TestListRemoveAtShiftsRemainingElements(t *testing.T) {
	l := NewList("l1", "mylist")
	l.Append(types.NewInt(1))
	l.Append(types.NewInt(2))
	l.Append(types.NewInt(3))

	if !l.RemoveAt(2) {
		t.Fatalf("RemoveAt(2) should succeed")
	}
	if l.Length() != 2 {
		t.Fatalf("Length() = %d, want 2", l.Length())
	}
	got, _ := l.Get(2)
	if !types.Equal(got, types.NewInt(3)) {
		t.Fatalf("Get(2) after removing index 2 = %v, want 3", got)
	}
}

func TestListIndexOfUsesScratchEquality(t *testing.T) {
	l := NewList("l1", "mylist")
	l.Append(types.NewString("3"))
	if idx := l.IndexOf(types.NewInt(3)); idx != 1 {
		t.Fatalf("IndexOf(3) = %d, want 1 (\"3\" == 3 numerically)", idx)
	}
}

func TestStoreFindVariableFallsBackToStage(t *testing.T) {
	store := NewStore()
	stage := NewStage("stage", "Stage")
	global := NewVariable("g1", "global")
	stage.Variables[global.ID] = global
	store.AddTarget(stage)

	sprite := NewSprite("s1", "Sprite1")
	store.AddTarget(sprite)

	got, ok := store.FindVariable(sprite, "g1")
	if !ok || got != global {
		t.Fatalf("FindVariable should fall back to the stage for globals")
	}
}

func TestStoreFindVariablePrefersLocal(t *testing.T) {
	store := NewStore()
	stage := NewStage("stage", "Stage")
	shadowed := NewVariable("v1", "v")
	stage.Variables[shadowed.ID] = shadowed
	store.AddTarget(stage)

	sprite := NewSprite("s1", "Sprite1")
	local := NewVariable("v1", "v")
	sprite.Variables[local.ID] = local
	store.AddTarget(sprite)

	got, _ := store.FindVariable(sprite, "v1")
	if got != local {
		t.Fatalf("FindVariable should prefer the target's own variable over the stage's")
	}
}

func TestResolveBlockLinksPatchesPointers(t *testing.T) {
	store := NewStore()
	sprite := NewSprite("s1", "Sprite1")
	parent := NewBlock("b1", "control_forever")
	child := NewBlock("b2", "motion_movesteps")
	parent.NextID = "b2"
	sprite.Blocks[parent.ID] = parent
	sprite.Blocks[child.ID] = child
	store.AddTarget(sprite)

	if err := store.ResolveBlockLinks(); err != nil {
		t.Fatalf("ResolveBlockLinks: %v", err)
	}
	if parent.NextBlock != child {
		t.Fatalf("expected NextBlock to be patched to the child block")
	}
}

func TestResolveBlockLinksReportsUnresolvedReference(t *testing.T) {
	store := NewStore()
	sprite := NewSprite("s1", "Sprite1")
	block := NewBlock("b1", "control_forever")
	block.NextID = "missing"
	sprite.Blocks[block.ID] = block
	store.AddTarget(sprite)

	if err := store.ResolveBlockLinks(); err == nil {
		t.Fatalf("expected an error for an unresolved next-block reference")
	}
}

func TestSpritesReturnedInCreationOrder(t *testing.T) {
	store := NewStore()
	a := NewSprite("a", "A")
	b := NewSprite("b", "B")
	store.AddTarget(a)
	store.AddTarget(b)

	sprites := store.Sprites()
	if len(sprites) != 2 || sprites[0] != a || sprites[1] != b {
		t.Fatalf("Sprites() did not preserve creation order")
	}
}
