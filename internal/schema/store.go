package schema

import (
	"bytes"
	"fmt"

	"github.com/aescanero/dago-node-render/internal/value"
)

// Action tells the caller what a merge call did with its input
type Action int

const (
	// ActionBase means the input became the base schema
	ActionBase Action = iota

	// ActionApplied means the input was merged into a structured base
	ActionApplied

	// ActionQueued means the input waits for the base to be decoded
	ActionQueued
)

func (a Action) String() string {
	switch a {
	case ActionBase:
		return "base"
	case ActionApplied:
		return "applied"
	case ActionQueued:
		return "queued"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Store holds a base schema and the merges recorded after it.
//
// A Store is not safe for concurrent use.
type Store struct {
	base   Input
	merges []Input
}

// NewStore creates a store from at most one non-empty base input. Passing
// more than one fails with ErrMultipleSchemaInputs.
func NewStore(inputs ...Input) (*Store, error) {
	s := &Store{base: Unset{}}

	for _, in := range inputs {
		if IsEmpty(in) {
			continue
		}
		if _, unset := s.base.(Unset); !unset {
			return nil, ErrMultipleSchemaInputs
		}
		s.base = clone(in)
	}

	return s, nil
}

// MergeText records a JSON schema. With a structured base the text is
// decoded now and merged; a decode failure leaves the store untouched.
func (s *Store) MergeText(text string) (Action, error) {
	return s.mergeEncoded(SerializedText{Text: text})
}

// MergeBinary records a MessagePack schema, see MergeText
func (s *Store) MergeBinary(data []byte) (Action, error) {
	return s.mergeEncoded(CompactBinary{Data: bytes.Clone(data)})
}

// MergeValue converts v and records it. Conversion errors leave the store
// untouched.
func (s *Store) MergeValue(v any) (Action, error) {
	converted, err := value.Convert(v)
	if err != nil {
		return 0, err
	}

	switch base := s.base.(type) {
	case Unset:
		s.base = Structured{Value: converted}
		return ActionBase, nil
	case Structured:
		s.base = Structured{Value: value.Merge(base.Value, converted)}
		return ActionApplied, nil
	default:
		s.merges = append(s.merges, Structured{Value: converted})
		return ActionQueued, nil
	}
}

func (s *Store) mergeEncoded(in Input) (Action, error) {
	switch base := s.base.(type) {
	case Unset:
		s.base = in
		return ActionBase, nil
	case Structured:
		decoded, err := Decode(in)
		if err != nil {
			return 0, err
		}
		s.base = Structured{Value: value.Merge(base.Value, decoded)}
		return ActionApplied, nil
	default:
		s.merges = append(s.merges, in)
		return ActionQueued, nil
	}
}

// Base returns the current base input
func (s *Store) Base() Input {
	return s.base
}

// Pending returns how many merges wait for render time
func (s *Store) Pending() int {
	return len(s.merges)
}

// Snapshot returns a deep copy of the base and the queued merges, leaving the
// store unchanged.
func (s *Store) Snapshot() (Input, []Input) {
	merges := make([]Input, len(s.merges))
	for i, m := range s.merges {
		merges[i] = clone(m)
	}
	return clone(s.base), merges
}

// Take moves the base and the queued merges out of the store. The store is
// left with an Unset base and no merges.
func (s *Store) Take() (Input, []Input) {
	base, merges := s.base, s.merges
	s.base = Unset{}
	s.merges = nil
	return base, merges
}
