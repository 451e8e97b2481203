package registry

import "fmt"

// Kind identifies one of the three entry kinds.
type Kind int

const (
	KindCommand Kind = iota
	KindCounter
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindCounter:
		return "counter"
	case KindParameter:
		return "parameter"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the singular or plural name of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "command", "commands":
		return KindCommand, nil
	case "counter", "counters":
		return KindCounter, nil
	case "parameter", "parameters":
		return KindParameter, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// state tracks an entry through its lifecycle. An idle entry was never
// registered, a retired one was deregistered and is poisoned until it is
// registered again.
type state uint8

const (
	stateIdle state = iota
	stateRegistered
	stateRetired
)
