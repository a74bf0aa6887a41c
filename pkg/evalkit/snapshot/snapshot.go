package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// Version is the current snapshot format version.
// Increment when making breaking changes to the envelope or value encoding.
const Version = 1

// Snapshot is the persisted form of a context's variables.
// Functions are closures and are never persisted.
type Snapshot struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`

	// Variables maps variable names to JSON encoded values.
	Variables json.RawMessage `json:"variables"`
}

// Marshal serializes a snapshot to JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a snapshot from JSON.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Version > Version {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", s.Version, Version)
	}
	return &s, nil
}

// Capture encodes the variables of c into a new snapshot called name.
func Capture[I numeric.Integer[I, F], F numeric.Float[F]](name string, c *expr.MapContext[I, F]) (*Snapshot, error) {
	variables := make(map[string]expr.Value[I, F], c.Len())
	for k, v := range c.Variables() {
		variables[k] = v
	}

	encoded, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("encode variables: %w", err)
	}

	return &Snapshot{
		Version:   Version,
		ID:        uuid.NewString(),
		Name:      name,
		Timestamp: time.Now().UTC(),
		Variables: encoded,
	}, nil
}

// Restore binds every variable of s in c, overwriting existing bindings
// of the same name. Other bindings of c are left alone.
func Restore[I numeric.Integer[I, F], F numeric.Float[F]](s *Snapshot, c *expr.MapContext[I, F]) error {
	var variables map[string]expr.Value[I, F]
	if err := json.Unmarshal(s.Variables, &variables); err != nil {
		return fmt.Errorf("decode variables of snapshot %s: %w", s.Name, err)
	}
	for name, v := range variables {
		c.MustSetVariable(name, v)
	}
	return nil
}

// SaveContext captures c and writes it to store under name.
func SaveContext[I numeric.Integer[I, F], F numeric.Float[F]](store Store, name string, c *expr.MapContext[I, F]) (*Snapshot, error) {
	snap, err := Capture(name, c)
	if err != nil {
		return nil, err
	}
	data, err := snap.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := store.Save(name, data); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadContext reads the snapshot called name from store and restores it
// into c.
func LoadContext[I numeric.Integer[I, F], F numeric.Float[F]](store Store, name string, c *expr.MapContext[I, F]) (*Snapshot, error) {
	data, err := store.Load(name)
	if err != nil {
		return nil, err
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", name, err)
	}
	if err := Restore(snap, c); err != nil {
		return nil, err
	}
	return snap, nil
}
