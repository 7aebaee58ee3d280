package model

import "fmt"

// Direction controls which way files flow during one reconcile pass.
// It is fixed for the duration of a sync invocation.
type Direction string

const (
	ToLocal  Direction = "to-local"
	ToRemote Direction = "to-remote"
	Both     Direction = "both"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case ToLocal, ToRemote, Both:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("invalid direction %q (want to-local, to-remote or both)", s)
	}
}

func (d Direction) PullEnabled() bool {
	return d == ToLocal || d == Both
}

func (d Direction) PushEnabled() bool {
	return d == ToRemote || d == Both
}
