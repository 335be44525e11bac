package graph

import (
	"errors"
	"time"
)

var ErrPropertyNotFound = errors.New("property not found")

// PropertyValue is an interface that offers type negotiation for property values to reduce the
// boilerplate required to handle property values.
type PropertyValue interface {
	// IsNil returns true if the property value is nil.
	IsNil() bool

	// Bool returns the property value as a bool along with any type negotiation error information.
	Bool() (bool, error)

	// Int returns the property value as an int along with any type negotiation error information.
	Int() (int, error)

	// Int64 returns the property value as an int64 along with any type negotiation error information.
	Int64() (int64, error)

	// Uint64 returns the property value as an uint64 along with any type negotiation error information.
	Uint64() (uint64, error)

	// Float64 returns the property value as a float64 along with any type negotiation error information.
	Float64() (float64, error)

	// String returns the property value as a string along with any type negotiation error information.
	String() (string, error)

	// StringSlice returns the property value as a string slice along with any type negotiation error information.
	StringSlice() ([]string, error)

	// Time returns the property value as time.Time along with any type negotiation error information.
	Time() (time.Time, error)

	// Any returns the property value typed as any. This function may return a null reference.
	Any() any
}

// Node is a node taken from a graph export. The ExternalID is the identifier assigned by the
// export producer and is distinct from any identity the target store assigns on creation.
type Node struct {
	ExternalID string
	Kinds      Kinds
	Properties *Properties
}

func NewNode(externalID string, properties *Properties, kinds ...Kind) *Node {
	if properties == nil {
		properties = NewProperties()
	}

	return &Node{
		ExternalID: externalID,
		Kinds:      kinds,
		Properties: properties,
	}
}

// Relationship is a directed, typed relationship taken from a graph export. Endpoints reference
// the external identifiers of nodes in the same export.
type Relationship struct {
	Kind            Kind
	StartExternalID string
	EndExternalID   string
	Properties      *Properties
}

func NewRelationship(startExternalID, endExternalID string, properties *Properties, kind Kind) *Relationship {
	if properties == nil {
		properties = NewProperties()
	}

	return &Relationship{
		Kind:            kind,
		StartExternalID: startExternalID,
		EndExternalID:   endExternalID,
		Properties:      properties,
	}
}
