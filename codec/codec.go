// Package codec selects the payload encoding of persisted sets.
//
// Snapshots record the codec name in their header, so changing the default
// never breaks loading older snapshots as long as the old codec stays
// registered under its name.
package codec

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when a value does not implement the interface a
// codec relies on.
var ErrUnsupported = errors.New("codec: unsupported value")

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// This is used for self-describing persistence formats (snapshots) that store
// the codec name in their header.
func ByName(name string) (Codec, bool) {
	switch name {
	case "binary":
		return Binary{}, true
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names lists the built-in codec names.
func Names() []string {
	return []string{"binary", "json", "go-json"}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

// Default is the codec used for new snapshots.
var Default Codec = Binary{}
