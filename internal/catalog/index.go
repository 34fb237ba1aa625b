package catalog

// node is a tree node. Each node exclusively owns its children.
type node struct {
	product     Product
	left, right *node
}

// Index is a binary search tree of products keyed by Product.Code.
// The shape follows insertion order; there is no rebalancing.
// Index is not safe for concurrent use.
type Index struct {
	root *node
	size int
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{}
}

// Len returns the number of stored products, duplicates included.
func (t *Index) Len() int {
	return t.size
}

// Insert adds p to the index. A product whose code is already present is
// routed right of the existing entry and stored as a separate node.
func (t *Index) Insert(p Product) {
	t.size++
	n := &node{product: p}
	if t.root == nil {
		t.root = n
		return
	}
	cur := t.root
	for {
		if p.Code < cur.product.Code {
			if cur.left == nil {
				cur.left = n
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = n
				return
			}
			cur = cur.right
		}
	}
}

// Find returns the first product with the given code.
func (t *Index) Find(code int) (Product, bool) {
	n := t.lookup(code)
	if n == nil {
		return Product{}, false
	}
	return n.product, true
}

// Update applies fn to the stored product with the given code.
// Changes fn makes to Code are discarded.
func (t *Index) Update(code int, fn func(p *Product)) bool {
	n := t.lookup(code)
	if n == nil {
		return false
	}
	fn(&n.product)
	n.product.Code = code
	return true
}

func (t *Index) lookup(code int) *node {
	cur := t.root
	for cur != nil {
		switch {
		case code == cur.product.Code:
			return cur
		case code < cur.product.Code:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil
}

// Remove deletes the first product with the given code.
// It returns false when no such product exists.
func (t *Index) Remove(code int) bool {
	var removed bool
	t.root, removed = remove(t.root, code)
	if removed {
		t.size--
	}
	return removed
}

func remove(n *node, code int) (*node, bool) {
	if n == nil {
		return nil, false
	}
	var removed bool
	switch {
	case code < n.product.Code:
		n.left, removed = remove(n.left, code)
		return n, removed
	case code > n.product.Code:
		n.right, removed = remove(n.right, code)
		return n, removed
	}
	if n.left == nil {
		return n.right, true
	}
	if n.right == nil {
		return n.left, true
	}
	// Two children: take over the in-order successor and delete it from the right subtree.
	succ := n.right
	for succ.left != nil {
		succ = succ.left
	}
	n.product = succ.product
	n.right = removeMin(n.right)
	return n, true
}

// removeMin splices out the leftmost node of n.
func removeMin(n *node) *node {
	if n.left == nil {
		return n.right
	}
	n.left = removeMin(n.left)
	return n
}

// Walk visits products in ascending code order until fn returns false.
func (t *Index) Walk(fn func(p Product) bool) {
	walk(t.root, fn)
}

func walk(n *node, fn func(p Product) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, fn) && fn(n.product) && walk(n.right, fn)
}

// All returns every product in ascending code order.
func (t *Index) All() []Product {
	out := make([]Product, 0, t.size)
	t.Walk(func(p Product) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Filtered returns, in ascending code order, the products whose category,
// sub-category, skin type and range all equal the given values.
func (t *Index) Filtered(category, subCategory, skinType, priceRange string) []Product {
	out := make([]Product, 0)
	t.Walk(func(p Product) bool {
		if p.Matches(category, subCategory, skinType, priceRange) {
			out = append(out, p)
		}
		return true
	})
	return out
}

// Clear drops every node of the index.
func (t *Index) Clear() {
	clearTree(t.root)
	t.root = nil
	t.size = 0
}

func clearTree(n *node) {
	if n == nil {
		return
	}
	clearTree(n.left)
	clearTree(n.right)
	n.left, n.right = nil, nil
}
