package types

import "strconv"

// String returns the canonical decimal representation.
func (v IntValue) String() string {
	return strconv.FormatInt(v.Val, 10)
}
