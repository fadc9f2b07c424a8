package tree

import (
	"sync/atomic"
	"unsafe"
)

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// rbtree properties:
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.

// storeNode writes a child or root slot with a single untorn pointer store.
// Lockless readers descending through Left/Right must never observe a half
// written slot or a reordered pair of slot writes, otherwise a rotation
// could expose a temporary cycle. Parent and flag writes stay plain stores;
// readers do not ascend.
func storeNode(slot **RBNode, n *RBNode) {
	atomic.StorePointer((*unsafe.Pointer)(unsafe.Pointer(slot)), unsafe.Pointer(n))
}

// Init marks the node as unlinked by pointing the parent word at the node
// itself. That state never arises for a linked node, which makes IsLinked
// and every traversal accessor safe on unlinked inputs. Linking does not
// require a prior Init; relinking after Unlink does (or use UnlinkAndInit).
func (node *RBNode) Init() {
	node.Left = nil
	node.Right = nil
	node.parent = unsafe.Pointer(node)
	node.flags = 0
}

// IsLinked reports whether the node is linked into some tree. Both the
// zero value and an Init'ed node count as unlinked.
func (node *RBNode) IsLinked() bool {
	return node != nil && node.parent != nil && node.parent != unsafe.Pointer(node)
}

// parentNode extracts the parent from the packed word, hiding the
// root-back-pointer: for the root node this returns nil. Callers must not
// use it on unlinked nodes (the self sentinel would leak through).
func (node *RBNode) parentNode() *RBNode {
	if node.flags&nodeRoot != 0 {
		return nil
	}
	return (*RBNode)(node.parent)
}

// Parent returns the parent node, or nil if the node is the root, unlinked
// or nil.
func (node *RBNode) Parent() *RBNode {
	if !node.IsLinked() {
		return nil
	}
	return node.parentNode()
}

// OwningTree returns the tree the node is the root of, or nil if the node
// is not a root.
func (node *RBNode) OwningTree() *RBTree {
	if node == nil || node.flags&nodeRoot == 0 {
		return nil
	}
	return (*RBTree)(node.parent)
}

func (node *RBNode) Color() RBColor {
	if node.IsRed() {
		return Red
	}
	return Black
}

func (node *RBNode) IsRed() bool {
	return node != nil && node.flags&nodeRed != 0
}

// IsBlack treats nil leaves as black (p2).
func (node *RBNode) IsBlack() bool {
	return !node.IsRed()
}

// setParentAndFlags overwrites the packed parent word. It is a plain
// assignment of both halves; no other magic is applied.
func (node *RBNode) setParentAndFlags(p *RBNode, flags uint8) {
	node.parent = unsafe.Pointer(p)
	node.flags = flags
}

// Nodes do not carry a pointer to their tree; only the root's parent word
// encodes it. Before a rotation that may displace the root, popRoot strips
// the tree reference off the candidate (leaving a plain parent-less node),
// and after the rotation pushRoot installs the new top node into the tree
// slot and re-tags its word. Rotations in between treat every node
// uniformly.
func (node *RBNode) popRoot() *RBTree {
	if node.flags&nodeRoot == 0 {
		return nil
	}
	t := (*RBTree)(node.parent)
	node.parent = nil
	node.flags &^= nodeRoot
	return t
}

// Counter-part to popRoot. A nil tree means no root was popped.
func pushRoot(node *RBNode, t *RBTree) {
	if t == nil {
		return
	}
	if node != nil {
		node.parent = unsafe.Pointer(t)
		node.flags |= nodeRoot
	}
	storeNode(&t.Root, node)
}

// swapChild redirects the parent's child slot from old to replacement. It
// does not touch any parent word. If old is the root (or was just popped),
// this is a no-op; the caller drives popRoot/pushRoot.
func swapChild(old, replacement *RBNode) {
	p := old.parentNode()
	if p == nil {
		return
	}
	if p.Left == old {
		storeNode(&p.Left, replacement)
	} else {
		storeNode(&p.Right, replacement)
	}
}

/*
Insertion fixup. The freshly linked node X is red; one step either
terminates or returns the next node needing attention.

<X> is a RED node.
[X] is a BLACK node (or NIL).

i1: X is the root. Paint it black; every path shares the root, so the
black depths stay equal.

i2: The parent P is black. Nothing to fix.

i3: Parent P and uncle U are both red, so grandpa G is black. Repaint P
and U black, G red, and recurse on G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

i4: P is red, U is black, and X is the inner child. Rotate on P so the
pair lines up, then fall through to i5 with X and P swapped.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

i5: P is red, U is black, X is the outer child. Rotate on G and swap the
colors of P and G. The subtree root stays black, so we are done.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

Rotations are open-coded so that only the slots that actually change are
written: a rotation on G touches exactly three child slots and three
parent words.
*/
func paintOne(n *RBNode) *RBNode {
	p := n.parentNode()
	if /* i1 */ p == nil {
		n.flags &^= nodeRed
		return nil
	}
	if /* i2 */ p.IsBlack() {
		return nil
	}

	// The parent is red, so the grandpa exists and is black.
	g := p.parentNode()
	gg := g.parentNode()

	if p == g.Left {
		u := g.Right
		if /* i3 */ u.IsRed() {
			p.flags &^= nodeRed
			u.flags &^= nodeRed
			g.flags |= nodeRed
			return g
		}

		if /* i4 */ n == p.Right {
			x := n.Left
			storeNode(&p.Right, x)
			storeNode(&n.Left, p)
			if x != nil {
				x.setParentAndFlags(p, x.flags&^nodeRed)
			}
			p.setParentAndFlags(n, p.flags|nodeRed)
			p = n
		}

		/* i5 */
		x := p.Right
		t := g.popRoot()
		storeNode(&g.Left, x)
		storeNode(&p.Right, g)
		swapChild(g, p)
		if x != nil {
			x.setParentAndFlags(g, x.flags&^nodeRed)
		}
		p.setParentAndFlags(gg, p.flags&^nodeRed)
		g.setParentAndFlags(p, g.flags|nodeRed)
		pushRoot(p, t)
		return nil
	}

	// p == g.Right, mirrored.
	u := g.Left
	if /* i3 */ u.IsRed() {
		p.flags &^= nodeRed
		u.flags &^= nodeRed
		g.flags |= nodeRed
		return g
	}

	if /* i4 */ n == p.Left {
		x := n.Right
		storeNode(&p.Left, x)
		storeNode(&n.Right, p)
		if x != nil {
			x.setParentAndFlags(p, x.flags&^nodeRed)
		}
		p.setParentAndFlags(n, p.flags|nodeRed)
		p = n
	}

	/* i5 */
	x := p.Left
	t := g.popRoot()
	storeNode(&g.Right, x)
	storeNode(&p.Left, g)
	swapChild(g, p)
	if x != nil {
		x.setParentAndFlags(g, x.flags&^nodeRed)
	}
	p.setParentAndFlags(gg, p.flags&^nodeRed)
	g.setParentAndFlags(p, g.flags|nodeRed)
	pushRoot(p, t)
	return nil
}

func paint(n *RBNode) {
	for n != nil {
		n = paintOne(n)
	}
}

// Link attaches n at an empty child slot of p and rebalances. The slot must
// be &p.Left or &p.Right; the caller found it by descending the tree in its
// own search order. For a possibly empty tree use RBTree.Add.
func Link(p *RBNode, slot **RBNode, n *RBNode) {
	if p == nil || slot == nil || n == nil {
		panic( /* debug assertion */ "[rbtree] link with nil parent, slot or node")
	}
	if slot != &p.Left && slot != &p.Right {
		panic( /* debug assertion */ "[rbtree] link slot is not a child slot of the parent")
	}
	if n.IsLinked() {
		panic( /* debug assertion */ "[rbtree] link of an already linked node")
	}

	n.setParentAndFlags(p, nodeRed)
	storeNode(&n.Left, nil)
	storeNode(&n.Right, nil)
	storeNode(slot, n)

	paint(n)
}

// Add attaches n at an empty slot of the tree and rebalances. A typical
// insertion descends from the root to find the slot:
//
//	slot, p := &t.Root, (*RBNode)(nil)
//	for *slot != nil {
//		p = *slot
//		if less(n, p) {
//			slot = &p.Left
//		} else {
//			slot = &p.Right
//		}
//	}
//	t.Add(p, slot, n)
//
// When p is nil the slot must be &t.Root and n becomes the root.
func (tree *RBTree) Add(p *RBNode, slot **RBNode, n *RBNode) {
	if tree == nil || slot == nil || n == nil {
		panic( /* debug assertion */ "[rbtree] add with nil tree, slot or node")
	}
	if p != nil && slot != &p.Left && slot != &p.Right {
		panic( /* debug assertion */ "[rbtree] add slot is not a child slot of the parent")
	}
	if p == nil && slot != &tree.Root {
		panic( /* debug assertion */ "[rbtree] add without parent requires the root slot")
	}
	if n.IsLinked() {
		panic( /* debug assertion */ "[rbtree] add of an already linked node")
	}

	n.setParentAndFlags(p, nodeRed)
	storeNode(&n.Left, nil)
	storeNode(&n.Right, nil)

	if p != nil {
		storeNode(slot, n)
	} else {
		pushRoot(n, tree)
	}

	paint(n)
}

/*
Removal fixup. Every path through p and n carries one black node less than
the rest of the tree; one step either terminates or returns the next
deficient subtree root. The sibling S must exist, the deficient side was
balanced before the removal.

rm1: The sibling S is red, so P and both nephews are black. Rotate S up
and swap colors; the new sibling is black and one of rm2..rm4 applies.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S is black with two black nephews. Paint S red; if P is red, turn it
black and the path has regained its black node. If P is black the whole
subtree is now deficient, continue from P.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: S is black, the inner nephew Sc is red, the outer Sd is black.
Rotate on S to push the red nephew up; falls through to rm4.

	  {P}                   {P}
	  / \    r-rotate(S)    / \
	[X] [S]  ==========>  [X] [Sc]
	    / \                     \
	  <Sc> [Sd]                 <S>
	                              \
	                              [Sd]

rm4: S is black, the outer nephew Sd is red. Rotate on P; S inherits P's
color, P and Sd turn black. The deficient path gained a black node, done.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 [Sc] <Sd>          [X] [Sc]
*/
func rebalanceOne(p, n *RBNode) *RBNode {
	var (
		s, x, y, g *RBNode
		t          *RBTree
	)

	if n == p.Left {
		s = p.Right
		if /* rm1 */ s.IsRed() {
			t = p.popRoot()
			g = p.parentNode()
			x = s.Left
			storeNode(&p.Right, x)
			storeNode(&s.Left, p)
			swapChild(p, s)
			x.setParentAndFlags(p, x.flags&^nodeRed)
			s.setParentAndFlags(g, s.flags&^nodeRed)
			p.setParentAndFlags(s, p.flags|nodeRed)
			pushRoot(s, t)
			s = x
		}

		x = s.Right
		if x.IsBlack() {
			y = s.Left
			if /* rm2 */ y.IsBlack() {
				s.flags |= nodeRed
				if p.IsBlack() {
					return p
				}
				p.flags &^= nodeRed
				return nil
			}

			/* rm3 */
			x = y.Right
			storeNode(&s.Left, y.Right)
			storeNode(&y.Right, s)
			storeNode(&p.Right, y)
			if x != nil {
				x.setParentAndFlags(s, x.flags&^nodeRed)
			}
			x = s
			s = y
		}

		/* rm4 */
		t = p.popRoot()
		g = p.parentNode()
		y = s.Left
		storeNode(&p.Right, y)
		storeNode(&s.Left, p)
		swapChild(p, s)
		x.setParentAndFlags(s, x.flags&^nodeRed)
		if y != nil {
			y.setParentAndFlags(p, y.flags)
		}
		s.setParentAndFlags(g, p.flags)
		p.setParentAndFlags(s, p.flags&^nodeRed)
		pushRoot(s, t)
	} else {
		// n == p.Right, mirrored.
		s = p.Left
		if /* rm1 */ s.IsRed() {
			t = p.popRoot()
			g = p.parentNode()
			x = s.Right
			storeNode(&p.Left, x)
			storeNode(&s.Right, p)
			swapChild(p, s)
			x.setParentAndFlags(p, x.flags&^nodeRed)
			s.setParentAndFlags(g, s.flags&^nodeRed)
			p.setParentAndFlags(s, p.flags|nodeRed)
			pushRoot(s, t)
			s = x
		}

		x = s.Left
		if x.IsBlack() {
			y = s.Right
			if /* rm2 */ y.IsBlack() {
				s.flags |= nodeRed
				if p.IsBlack() {
					return p
				}
				p.flags &^= nodeRed
				return nil
			}

			/* rm3 */
			x = y.Left
			storeNode(&s.Right, y.Left)
			storeNode(&y.Left, s)
			storeNode(&p.Left, y)
			if x != nil {
				x.setParentAndFlags(s, x.flags&^nodeRed)
			}
			x = s
			s = y
		}

		/* rm4 */
		t = p.popRoot()
		g = p.parentNode()
		y = s.Right
		storeNode(&p.Left, y)
		storeNode(&s.Right, p)
		swapChild(p, s)
		x.setParentAndFlags(s, x.flags&^nodeRed)
		if y != nil {
			y.setParentAndFlags(p, y.flags)
		}
		s.setParentAndFlags(g, p.flags)
		p.setParentAndFlags(s, p.flags&^nodeRed)
		pushRoot(s, t)
	}

	return nil
}

func rebalance(p *RBNode) {
	var n *RBNode
	for p != nil {
		n = rebalanceOne(p, n)
		if n == nil {
			return
		}
		p = n.parentNode()
	}
}

// Unlink splices the node out of its tree and rebalances if a black node
// left a path. The node's own fields are left untouched, so traversal
// state read from it afterwards is stale; call Init before relinking, or
// use UnlinkAndInit.
func (node *RBNode) Unlink() {
	if !node.IsLinked() {
		panic( /* debug assertion */ "[rbtree] unlink of an unlinked node")
	}

	var next *RBNode

	if node.Left == nil {
		// The node has no left child. A right child, if present, must be
		// red (conclusion of p4) and the node black: the child takes the
		// node's place painted black, no rebalance needed. A childless
		// black node leaves its parent's side deficient.
		t := node.popRoot()
		swapChild(node, node.Right)
		if node.Right != nil {
			node.Right.setParentAndFlags(node.parentNode(), node.Right.flags&^nodeRed)
		} else if node.IsBlack() {
			next = node.parentNode()
		}
		pushRoot(node.Right, t)
	} else if node.Right == nil {
		// Only a left child: mirrored, the red child replaces the node
		// painted black.
		t := node.popRoot()
		swapChild(node, node.Left)
		node.Left.setParentAndFlags(node.parentNode(), node.Left.flags&^nodeRed)
		pushRoot(node.Left, t)
	} else {
		// Two children: the in-order successor s cannot have a left child,
		// so splicing it out is one of the cases above. s then substitutes
		// the node wholesale, inheriting its color. The swap is partial on
		// purpose, links about to be dropped are skipped.
		s := node.Right
		var p, gc *RBNode
		if s.Left == nil {
			// The right child is the successor itself; its parent after
			// the substitution is s, not a detached node.
			p = s
			gc = s.Right
		} else {
			s = s.Leftmost()
			p = s.parentNode()
			gc = s.Right
			storeNode(&p.Left, gc)
			storeNode(&s.Right, node.Right)
			node.Right.setParentAndFlags(s, node.Right.flags)
		}

		storeNode(&s.Left, node.Left)
		node.Left.setParentAndFlags(s, node.Left.flags)

		t := node.popRoot()
		swapChild(node, s)
		if gc != nil {
			gc.setParentAndFlags(p, gc.flags&^nodeRed)
		} else if s.IsBlack() {
			next = p
		}
		if node.IsRed() {
			s.setParentAndFlags(node.parentNode(), s.flags|nodeRed)
		} else {
			s.setParentAndFlags(node.parentNode(), s.flags&^nodeRed)
		}
		pushRoot(s, t)
	}

	if next != nil {
		rebalance(next)
	}
}

// UnlinkAndInit is Unlink plus re-stamping the node as unlinked. Unlike
// Unlink it is a no-op on nil or unlinked nodes.
func (node *RBNode) UnlinkAndInit() {
	if !node.IsLinked() {
		return
	}
	node.Unlink()
	node.Init()
}
