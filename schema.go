package toon

// Descriptor is the minimal read-only protocol Section 6 describes for an
// external schema or ORM layer that wants to drive the encoder directly,
// without first materializing a Value tree. The core never implements this
// interface itself and ships no concrete schema layer (out of scope per
// Section 1's Non-goals); it is declared here purely as the seam such a
// layer would target.
type Descriptor interface {
	// Kind reports which alternative of the value union this node is.
	Kind() Kind
	// Fields returns the ordered field names of an object node. It is
	// called only when Kind() == KindObject.
	Fields() []string
	// Element returns the descriptor for an array node's elements. It is
	// called only when Kind() == KindArray.
	Element() Descriptor
}
