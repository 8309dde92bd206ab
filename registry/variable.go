package registry

import "loom/types"

// Variable is a named, mutable storage cell owned by a target. Global
// variables live on the stage; local variables live on the sprite
// that declares them.
type Variable struct {
	ID    string
	Name  string
	Value types.Value
	Cloud bool
}

// NewVariable creates a variable initialized to 0, matching the
// default a freshly created Scratch variable reporter shows.
func NewVariable(id, name string) *Variable {
	return &Variable{ID: id, Name: name, Value: types.NewInt(0)}
}
