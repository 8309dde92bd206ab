package registry

// Input describes one input slot of a block: either a literal shadow
// value or a reporter block plugged into the slot.
type Input struct {
	Name      string
	Shadow    bool
	LiteralID string // block ID of the shadow default, if any
	ValueID   string // block ID actually plugged in, if any
	Literal   string // raw literal text, when there is no plugged block
}

// Field describes one dropdown/field slot of a block (e.g. a variable
// or broadcast picker, or an operator's fixed menu choice).
type Field struct {
	Name  string
	Value string
	ID    string // referenced entity ID, for variable/list/broadcast fields
}

// Block is one node of a script's block graph, as parsed from a
// project's block table. Parent/Next/Inputs/Fields hold raw IDs as
// read from storage; Store.ResolveBlockLinks turns those IDs into the
// direct pointers this struct also carries (ParentBlock, NextBlock,
// InputBlocks) once every block in a target has been loaded, since
// the source graph is naturally cyclic-looking (parent points back to
// child) and can't be resolved block-by-block during a single pass.
type Block struct {
	ID       string
	Opcode   string
	TopLevel bool
	Shadow   bool

	ParentID string
	NextID   string
	Inputs   map[string]Input
	Fields   map[string]Field
	Comment  string

	ParentBlock *Block
	NextBlock   *Block
	InputBlocks map[string]*Block
}

// NewBlock creates a block with empty input/field tables ready to be
// populated by a loader.
func NewBlock(id, opcode string) *Block {
	return &Block{
		ID:          id,
		Opcode:      opcode,
		Inputs:      make(map[string]Input),
		Fields:      make(map[string]Field),
		InputBlocks: make(map[string]*Block),
	}
}
