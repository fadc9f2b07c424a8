package tree

// All traversal accessors take nil and unlinked nodes gracefully and
// return nil for them; none of them allocates. Worst case runtime is
// O(log n) unless noted otherwise.

// Leftmost returns the leftmost node of the subtree rooted at node, which
// is node itself if it has no left child.
func (node *RBNode) Leftmost() *RBNode {
	aux := node
	for ; aux != nil && aux.Left != nil; aux = aux.Left {
	}
	return aux
}

// Rightmost returns the rightmost node of the subtree rooted at node.
func (node *RBNode) Rightmost() *RBNode {
	aux := node
	for ; aux != nil && aux.Right != nil; aux = aux.Right {
	}
	return aux
}

// LeftDeepest returns the deepest node reached by descending left whenever
// possible and right otherwise, i.e. the deepest leaf without any left
// (grand-)siblings. It is the first node of a post-order traversal of the
// subtree.
func (node *RBNode) LeftDeepest() *RBNode {
	aux := node
	for aux != nil {
		if aux.Left != nil {
			aux = aux.Left
		} else if aux.Right != nil {
			aux = aux.Right
		} else {
			break
		}
	}
	return aux
}

// RightDeepest is the mirrored LeftDeepest.
func (node *RBNode) RightDeepest() *RBNode {
	aux := node
	for aux != nil {
		if aux.Right != nil {
			aux = aux.Right
		} else if aux.Left != nil {
			aux = aux.Left
		} else {
			break
		}
	}
	return aux
}

// Next returns the in-order successor, or nil if node is the last node.
func (node *RBNode) Next() *RBNode {
	if !node.IsLinked() {
		return nil
	}
	if node.Right != nil {
		return node.Right.Leftmost()
	}

	n, p := node, node.parentNode()
	// Backtrack to the first ancestor reached from its left side.
	for p != nil && n == p.Right {
		n, p = p, p.parentNode()
	}
	return p
}

// Prev returns the in-order predecessor, or nil if node is the first node.
func (node *RBNode) Prev() *RBNode {
	if !node.IsLinked() {
		return nil
	}
	if node.Left != nil {
		return node.Left.Rightmost()
	}

	n, p := node, node.parentNode()
	for p != nil && n == p.Left {
		n, p = p, p.parentNode()
	}
	return p
}

// NextPostorder returns the next node of a left-to-right post-order
// traversal (children before parents), or nil if node is the root.
func (node *RBNode) NextPostorder() *RBNode {
	if !node.IsLinked() {
		return nil
	}

	p := node.parentNode()
	if p != nil && node == p.Left && p.Right != nil {
		return p.Right.LeftDeepest()
	}
	return p
}

// PrevPostorder is the inverse of NextPostorder:
//
//	n == n.NextPostorder().PrevPostorder()
//
// whenever NextPostorder is non-nil. Walking it from RBTree.LastPostorder
// performs a right-to-left pre-order traversal.
func (node *RBNode) PrevPostorder() *RBNode {
	if !node.IsLinked() {
		return nil
	}
	if node.Right != nil {
		return node.Right
	}
	if node.Left != nil {
		return node.Left
	}

	n, p := node, node.parentNode()
	for p != nil {
		if p.Left != nil && n != p.Left {
			return p.Left
		}
		n, p = p, p.parentNode()
	}
	return nil
}

// First returns the in-order first node of the tree, or nil if empty.
func (tree *RBTree) First() *RBNode {
	if tree == nil {
		return nil
	}
	return tree.Root.Leftmost()
}

// Last returns the in-order last node of the tree, or nil if empty.
func (tree *RBTree) Last() *RBNode {
	if tree == nil {
		return nil
	}
	return tree.Root.Rightmost()
}

// FirstPostorder returns the first node of a post-order traversal, the
// left-deepest leaf.
func (tree *RBTree) FirstPostorder() *RBNode {
	if tree == nil {
		return nil
	}
	return tree.Root.LeftDeepest()
}

// LastPostorder returns the last node of a post-order traversal, which is
// always the root. O(1).
func (tree *RBTree) LastPostorder() *RBNode {
	if tree == nil {
		return nil
	}
	return tree.Root
}
