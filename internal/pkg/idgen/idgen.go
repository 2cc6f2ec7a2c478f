// Package idgen generates identifiers for creatures and stored reports.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// UUIDGenerator generates random UUIDs with an optional prefix. It is the
// default for anything that is persisted.
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate returns prefix_uuid, or a bare uuid without a prefix.
func (g *UUIDGenerator) Generate() string {
	return join(g.prefix, uuid.New().String())
}

// SequentialGenerator hands out prefix_1, prefix_2, ... It is safe for
// concurrent use and meant for tests and reproducible output.
type SequentialGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next ID in the sequence.
func (g *SequentialGenerator) Generate() string {
	return join(g.prefix, fmt.Sprint(g.counter.Add(1)))
}

func join(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
