package tree

import "errors"

// rbtree rule validation utilities. Exported because intrusive callers own
// the structure and may want to verify it after their own bulk surgery.

// blackDepthTo counts the black nodes on the path from target up to, but
// excluding, to.
func blackDepthTo(target, to *RBNode) int {
	depth := 0
	for aux := target; aux != to; aux = aux.parentNode() {
		if aux.IsBlack() {
			depth++
		}
	}
	return depth
}

// BFS traversal to load all nodes adjacent to at least one nil leaf.
func bfsLeaves(tree *RBTree) []*RBNode {
	if tree == nil || tree.Root == nil {
		return nil
	}

	leaves := make([]*RBNode, 0, 8)
	queue := []*RBNode{tree.Root}
	for len(queue) > 0 {
		aux := queue[0]
		queue = queue[1:]
		if /* nil leaves, keep one */ aux.Left == nil || aux.Right == nil {
			leaves = append(leaves, aux)
		}
		if aux.Left != nil {
			queue = append(queue, aux.Left)
		}
		if aux.Right != nil {
			queue = append(queue, aux.Right)
		}
	}
	return leaves
}

// RedViolationValidate reports an error if the root is red or any red node
// has a red child.
func RedViolationValidate(tree *RBTree) error {
	if tree == nil || tree.Root == nil {
		return nil
	}
	if tree.Root.IsRed() {
		return errors.New("[rbtree] red violation: red root")
	}
	for aux := tree.First(); aux != nil; aux = aux.Next() {
		if aux.IsRed() && (aux.Left.IsRed() || aux.Right.IsRed()) {
			return errors.New("[rbtree] red violation")
		}
	}
	return nil
}

// BlackViolationValidate reports an error if two root-to-leaf paths
// traverse different numbers of black nodes.
func BlackViolationValidate(tree *RBTree) error {
	leaves := bfsLeaves(tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo(leaves[0], tree.Root)
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo(leaves[i], tree.Root) != blackDepth {
			return errors.New("[rbtree] black violation")
		}
	}
	return nil
}

// LinkageViolationValidate reports an error if the parent words and child
// slots disagree: the root must carry the tree back-pointer, every child
// must point back to its parent, and no interior node may claim to be a
// root.
func LinkageViolationValidate(tree *RBTree) error {
	if tree == nil || tree.Root == nil {
		return nil
	}
	if tree.Root.OwningTree() != tree {
		return errors.New("[rbtree] linkage violation: root without tree back-pointer")
	}

	queue := []*RBNode{tree.Root}
	for len(queue) > 0 {
		aux := queue[0]
		queue = queue[1:]
		if aux != tree.Root && aux.OwningTree() != nil {
			return errors.New("[rbtree] linkage violation: interior node flagged as root")
		}
		if aux.Left != nil {
			if aux.Left.Parent() != aux {
				return errors.New("[rbtree] linkage violation: left child parent mismatch")
			}
			queue = append(queue, aux.Left)
		}
		if aux.Right != nil {
			if aux.Right.Parent() != aux {
				return errors.New("[rbtree] linkage violation: right child parent mismatch")
			}
			queue = append(queue, aux.Right)
		}
	}
	return nil
}
