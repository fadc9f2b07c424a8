// Package kv provides ordered key-value containers built on the intrusive
// tree primitives in lib/tree.
package kv

import (
	"errors"
	"sync/atomic"
	"unsafe"

	"github.com/intrusive-go/xtree/lib/infra"
	"github.com/intrusive-go/xtree/lib/tree"
)

// entry is the payload the map links into the tree; the embedded node is
// the only part the tree ever sees.
type entry[K infra.OrderedKey, V any] struct {
	key  K
	val  V
	node tree.RBNode
}

// entryOf recovers the entry from its embedded node by fixed-offset
// arithmetic, the intrusive counterpart of container_of.
func entryOf[K infra.OrderedKey, V any](n *tree.RBNode) *entry[K, V] {
	return (*entry[K, V])(unsafe.Add(unsafe.Pointer(n), -int(unsafe.Offsetof(entry[K, V]{}.node))))
}

// TreeMap is an ordered map over an intrusive red-black tree. It owns the
// entry allocations, drives the search descent and feeds the resulting
// (parent, slot) pairs to the tree. Not safe for concurrent mutation; the
// caller serializes writers, as with the underlying tree.
type TreeMap[K infra.OrderedKey, V any] struct {
	tree   tree.RBTree
	count  int64
	isDesc bool
}

type TreeMapOpt[K infra.OrderedKey, V any] func(*TreeMap[K, V])

// WithTreeMapDesc orders the map descending by key.
func WithTreeMapDesc[K infra.OrderedKey, V any]() TreeMapOpt[K, V] {
	return func(m *TreeMap[K, V]) {
		m.isDesc = true
	}
}

func NewTreeMap[K infra.OrderedKey, V any](opts ...TreeMapOpt[K, V]) *TreeMap[K, V] {
	m := &TreeMap[K, V]{}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *TreeMap[K, V]) keyCompare(k1, k2 K) int64 {
	if k1 == k2 {
		return 0
	} else if k1 < k2 {
		if !m.isDesc {
			return -1
		}
		return 1
	} else {
		if !m.isDesc {
			return 1
		}
		return -1
	}
}

func (m *TreeMap[K, V]) Len() int64 {
	return atomic.LoadInt64(&m.count)
}

// lookup returns the entry for key, or nil.
func (m *TreeMap[K, V]) lookup(key K) *entry[K, V] {
	for aux := m.tree.Root; aux != nil; {
		e := entryOf[K, V](aux)
		res := m.keyCompare(key, e.key)
		if res == 0 {
			return e
		} else if res < 0 {
			aux = aux.Left
		} else {
			aux = aux.Right
		}
	}
	return nil
}

// link descends to the insertion point for key and links a fresh entry
// there. The caller has already ruled out an existing mapping.
func (m *TreeMap[K, V]) link(key K, val V) {
	slot := &m.tree.Root
	var p *tree.RBNode
	for *slot != nil {
		p = *slot
		if m.keyCompare(key, entryOf[K, V](p).key) < 0 {
			slot = &p.Left
		} else {
			slot = &p.Right
		}
	}

	e := &entry[K, V]{key: key, val: val}
	e.node.Init()
	m.tree.Add(p, slot, &e.node)
	atomic.AddInt64(&m.count, 1)
}

// Put maps key to val, replacing any existing mapping. It reports whether
// a mapping was replaced.
func (m *TreeMap[K, V]) Put(key K, val V) bool {
	if e := m.lookup(key); e != nil {
		e.val = val
		return true
	}
	m.link(key, val)
	return false
}

// PutIfAbsent maps key to val, or fails if key is already present.
func (m *TreeMap[K, V]) PutIfAbsent(key K, val V) error {
	if m.lookup(key) != nil {
		return errors.New("[treemap] replace disabled")
	}
	m.link(key, val)
	return nil
}

func (m *TreeMap[K, V]) Get(key K) (V, bool) {
	if e := m.lookup(key); e != nil {
		return e.val, true
	}
	return *new(V), false
}

// Delete removes the mapping for key, returning its value. The entry's
// node is reinitialized so the entry could be relinked, though the map
// drops its reference.
func (m *TreeMap[K, V]) Delete(key K) (V, bool) {
	e := m.lookup(key)
	if e == nil {
		return *new(V), false
	}
	e.node.UnlinkAndInit()
	atomic.AddInt64(&m.count, -1)
	return e.val, true
}

// Min returns the first key and value in map order.
func (m *TreeMap[K, V]) Min() (K, V, bool) {
	n := m.tree.First()
	if n == nil {
		return *new(K), *new(V), false
	}
	e := entryOf[K, V](n)
	return e.key, e.val, true
}

// Max returns the last key and value in map order.
func (m *TreeMap[K, V]) Max() (K, V, bool) {
	n := m.tree.Last()
	if n == nil {
		return *new(K), *new(V), false
	}
	e := entryOf[K, V](n)
	return e.key, e.val, true
}

// Foreach visits all mappings in map order until action returns false.
func (m *TreeMap[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	idx := int64(0)
	for aux := m.tree.First(); aux != nil; aux = aux.Next() {
		e := entryOf[K, V](aux)
		if !action(idx, e.key, e.val) {
			return
		}
		idx++
	}
}

// Purge drops all mappings without rebalancing. The post-order walk visits
// children before their parents, so every node is reinitialized before the
// links leading to it are abandoned.
func (m *TreeMap[K, V]) Purge() {
	for aux := m.tree.FirstPostorder(); aux != nil; {
		next := aux.NextPostorder()
		aux.Init()
		aux = next
	}
	m.tree.Root = nil
	atomic.StoreInt64(&m.count, 0)
}
