package registry

// RotationStyle controls how a sprite's costume is drawn as its
// direction changes.
type RotationStyle int

const (
	AllAround RotationStyle = iota
	LeftRight
	DoNotRotate
)

func (r RotationStyle) String() string {
	switch r {
	case AllAround:
		return "all around"
	case LeftRight:
		return "left-right"
	case DoNotRotate:
		return "don't rotate"
	default:
		return "unknown"
	}
}

// Costume is one entry of a target's costume/backdrop wardrobe.
type Costume struct {
	ID            string
	Name          string
	AssetID       string
	RotationCX    float64
	RotationCY    float64
	BitmapResolution int
}

// Sound is one entry of a target's sound library.
type Sound struct {
	ID      string
	Name    string
	AssetID string
}

// Target is either the Stage or one Sprite. Rather than modeling the
// original's Stage/Sprite inheritance pair as two Go types behind a
// common interface, Target is a single tagged struct: nearly every
// field and every VM-visible operation (variable/list ownership,
// costume switching, broadcasts) is shared, and the sprite-only fields
// are simply unused/zero on the Stage. IsStage discriminates the two.
type Target struct {
	ID      string
	Name    string
	IsStage bool

	Variables map[string]*Variable
	Lists     map[string]*List
	Blocks    map[string]*Block
	VarOrder  []string
	ListOrder []string

	Costumes       []*Costume
	CurrentCostume int
	Sounds         []*Sound
	Volume         float64
	LayerOrder     int

	// Sprite-only fields; zero-valued and unused on the Stage.
	X, Y          float64
	Size          float64
	Direction     float64
	Visible       bool
	Rotation      RotationStyle
	Draggable     bool
	CloneRoot     *Target
	CloneParent   *Target
}

// NewStage creates the singleton stage target.
func NewStage(id, name string) *Target {
	return &Target{
		ID:        id,
		Name:      name,
		IsStage:   true,
		Variables: make(map[string]*Variable),
		Lists:     make(map[string]*List),
		Blocks:    make(map[string]*Block),
		Volume:    100,
	}
}

// NewSprite creates a sprite target with the defaults a freshly
// dragged-in sprite starts with.
func NewSprite(id, name string) *Target {
	return &Target{
		ID:        id,
		Name:      name,
		Variables: make(map[string]*Variable),
		Lists:     make(map[string]*List),
		Blocks:    make(map[string]*Block),
		Size:      100,
		Direction: 90,
		Visible:   true,
		Rotation:  AllAround,
		Volume:    100,
	}
}

// IsClone reports whether this target was produced by "create clone
// of", as opposed to being an original sprite from the project.
func (t *Target) IsClone() bool {
	return t.CloneRoot != nil
}

// LookupVariable searches this target's own variables, falling back
// to nothing — callers needing the stage-global fallback go through
// Store.FindVariable, since a bare Target has no back-reference to
// the stage.
func (t *Target) LookupVariable(id string) (*Variable, bool) {
	v, ok := t.Variables[id]
	return v, ok
}

// LookupList mirrors LookupVariable for lists.
func (t *Target) LookupList(id string) (*List, bool) {
	l, ok := t.Lists[id]
	return l, ok
}
