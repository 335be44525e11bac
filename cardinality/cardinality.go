// Package cardinality provides set-cardinality tracking over uint64 identifiers. Two provider
// families are available: exact, enumerable bitmaps and fixed-memory probabilistic sketches.
package cardinality

// Provider describes the most basic functionality of a cardinality provider: adding elements
// and producing the cardinality of those elements.
type Provider interface {
	Add(value ...uint64)
	Or(other Provider)
	Clear()
	Cardinality() uint64
}

// Simplex is a one-way cardinality provider that does not allow a user to retrieve encoded values
// back out of the provider. This interface is suitable for algorithms such as HyperLogLog which
// utilize a hash function to merge identifiers into the cardinality provider.
type Simplex interface {
	Provider

	Clone() Simplex
}

// Duplex is a two-way cardinality provider that allows a user to retrieve encoded values back out
// of the provider. This interface is suitable for algorithms that behave similar to bitvectors.
type Duplex interface {
	Provider

	And(other Provider)
	Remove(value uint64)
	Slice() []uint64
	Contains(value uint64) bool
	Each(delegate func(value uint64) bool)
	CheckedAdd(value uint64) bool
	Clone() Duplex
}
