package events

import (
	"strings"
	"time"
)

// Kind identifies an event as "<namespace>.<name>".
type Kind string

func (k Kind) String() string { return string(k) }

// Namespace returns the part of the kind before the first dot.
func (k Kind) Namespace() string {
	namespace, _, _ := strings.Cut(string(k), ".")
	return namespace
}

// Event is a notification the scene sends to its host.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Handler receives events in emission order.
type Handler func(Event)

type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
