package engine

import "loom/registry"

// HatType identifies which family of top-level event a script's hat
// block responds to.
type HatType int

const (
	GreenFlag HatType = iota
	BroadcastReceived
	BackdropChanged
	CloneInit
	KeyPressed
)

func (h HatType) String() string {
	switch h {
	case GreenFlag:
		return "GreenFlag"
	case BroadcastReceived:
		return "BroadcastReceived"
	case BackdropChanged:
		return "BackdropChanged"
	case CloneInit:
		return "CloneInit"
	case KeyPressed:
		return "KeyPressed"
	default:
		return "Unknown"
	}
}

// restartsExisting reports whether re-triggering a hat of this type
// kills an already-running thread for the same (target, script) and
// starts a fresh one, versus leaving the running thread alone.
func (h HatType) restartsExisting() bool {
	switch h {
	case GreenFlag, BroadcastReceived, BackdropChanged:
		return true
	case CloneInit, KeyPressed:
		return false
	default:
		return false
	}
}

// hatOpcodes maps the block-registration catalogue's hat opcodes to
// the HatType the engine dispatches on, and the field the hat's match
// value is read from (empty when the hat carries no match field).
var hatOpcodes = map[string]struct {
	hat   HatType
	field string
}{
	"event_whenflagclicked":         {GreenFlag, ""},
	"event_whenbroadcastreceived":   {BroadcastReceived, "BROADCAST_OPTION"},
	"event_whenbackdropswitchesto":  {BackdropChanged, "BACKDROP"},
	"control_start_as_clone":        {CloneInit, ""},
	"event_whenkeypressed":          {KeyPressed, "KEY_OPTION"},
}

// classifyHat reports the HatType and match fields for a top-level
// block, or ok=false if the block's opcode isn't a recognized hat
// (e.g. it's a procedures_definition, or an unsupported extension
// block — the latter is logged by the caller as a warning).
func classifyHat(block *registry.Block) (hat HatType, matchFields map[string]string, ok bool) {
	spec, found := hatOpcodes[block.Opcode]
	if !found {
		return 0, nil, false
	}
	matchFields = make(map[string]string)
	if spec.field != "" {
		if f, present := block.Fields[spec.field]; present {
			matchFields[spec.field] = f.Value
		}
	}
	return spec.hat, matchFields, true
}
