// Package tree implements an intrusive red-black tree.
//
// Unlike a container that owns its elements, this tree stores no keys and
// allocates no memory. The caller embeds an RBNode inside its own payload
// struct, drives the search descent itself and hands the resulting
// (parent, slot) pair to Link or Add. The package only performs the
// red-black specific recoloring and rotations. Payloads are recovered from
// node pointers by fixed-offset arithmetic (see lib/kv for the canonical
// usage).
//
// The Left and Right child slots and the tree Root slot are exported on
// purpose: intrusive callers traverse through them and take their addresses
// to describe insertion points. All mutating operations on one tree must be
// serialized by the caller. Lockless readers are tolerated in a best-effort
// sense: child-slot stores are single untorn pointer stores, so a reader
// descending without locks sees a possibly stale but never cyclic or torn
// structure.
package tree

import "unsafe"

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

// Flag bits kept next to the parent word.
const (
	nodeRed  uint8 = 1 << iota // color bit; absence means black
	nodeRoot                   // parent word holds the owning *RBTree
)

// RBNode is the linkage embedded into the caller's payload. The zero value
// is unlinked; Init restores that state explicitly after an unlink.
//
// The parent word is a three-way union: the parent node, the owning tree
// when this node is the root (nodeRoot set), or the node itself when
// unlinked. Go's collector cannot trace pointers hidden in integer words,
// so the color and root bits live in a separate byte instead of the low
// bits of the pointer.
type RBNode struct {
	Left   *RBNode
	Right  *RBNode
	parent unsafe.Pointer
	flags  uint8
}

// RBTree is a single root slot. The zero value is an empty tree.
type RBTree struct {
	Root *RBNode
}
