package ncre

// token is an opaque record of what a node consumed, carrying whatever the
// node needs to rewind or resume. Each node kind has its own token type.
type token any

// expression is the four-operation protocol every tree node implements.
//
// match attempts the first candidate at state.index. On success it mutates
// the state (cursor, captures) and returns a resumable token; on failure it
// returns false with the state exactly as it found it.
//
// backtrack undoes the previous match and seeks the next alternative,
// returning a fresh token on success or false with the state fully rewound.
//
// discard unconditionally rewinds the state produced by a token, used when
// an outer node abandons the branch.
//
// invert structurally rewrites the node for right-to-left evaluation. It is
// applied once, at engine construction.
type expression interface {
	match(s *state) (token, bool)
	backtrack(s *state, t token) (token, bool)
	discard(s *state, t token)
	invert()
}

type sequenceNode struct {
	children []expression
}

type sequenceToken []token

func (n *sequenceNode) match(s *state) (token, bool) {
	toks := make(sequenceToken, len(n.children))
	if !n.matchFrom(s, toks, 0) {
		return nil, false
	}
	return toks, true
}

// matchFrom matches children i.. with backtracking into earlier children on
// failure. Returns false only with every child rewound.
func (n *sequenceNode) matchFrom(s *state, toks sequenceToken, i int) bool {
	for i < len(n.children) {
		if t, ok := n.children[i].match(s); ok {
			toks[i] = t
			i++
			continue
		}
		for {
			i--
			if i < 0 {
				return false
			}
			if t, ok := n.children[i].backtrack(s, toks[i]); ok {
				toks[i] = t
				i++
				break
			}
		}
	}
	return true
}

func (n *sequenceNode) backtrack(s *state, t token) (token, bool) {
	toks := t.(sequenceToken)
	for i := len(n.children) - 1; i >= 0; i-- {
		if bt, ok := n.children[i].backtrack(s, toks[i]); ok {
			toks[i] = bt
			if n.matchFrom(s, toks, i+1) {
				return toks, true
			}
			return nil, false
		}
	}
	return nil, false
}

func (n *sequenceNode) discard(s *state, t token) {
	toks := t.(sequenceToken)
	for i := len(n.children) - 1; i >= 0; i-- {
		n.children[i].discard(s, toks[i])
	}
}

func (n *sequenceNode) invert() {
	for i, j := 0, len(n.children)-1; i < j; i, j = i+1, j-1 {
		n.children[i], n.children[j] = n.children[j], n.children[i]
	}
	for _, c := range n.children {
		c.invert()
	}
}

type alternationNode struct {
	left  expression
	right expression
}

type alternationToken struct {
	right bool
	inner token
}

func (n *alternationNode) match(s *state) (token, bool) {
	if t, ok := n.left.match(s); ok {
		return &alternationToken{right: false, inner: t}, true
	}
	if t, ok := n.right.match(s); ok {
		return &alternationToken{right: true, inner: t}, true
	}
	return nil, false
}

func (n *alternationNode) backtrack(s *state, t token) (token, bool) {
	tok := t.(*alternationToken)
	if !tok.right {
		if bt, ok := n.left.backtrack(s, tok.inner); ok {
			tok.inner = bt
			return tok, true
		}
		if rt, ok := n.right.match(s); ok {
			tok.right = true
			tok.inner = rt
			return tok, true
		}
		return nil, false
	}
	if bt, ok := n.right.backtrack(s, tok.inner); ok {
		tok.inner = bt
		return tok, true
	}
	return nil, false
}

func (n *alternationNode) discard(s *state, t token) {
	tok := t.(*alternationToken)
	if tok.right {
		n.right.discard(s, tok.inner)
	} else {
		n.left.discard(s, tok.inner)
	}
}

func (n *alternationNode) invert() {
	n.left.invert()
	n.right.invert()
}

type repetitionNode struct {
	child expression
	min   int
	max   int // -1 means unbounded
	lazy  bool
}

type repetitionToken struct {
	iterations []token
}

// extend consumes iterations greedily up to max. An iteration that matches
// without advancing the cursor ends the loop once min is satisfied, so
// patterns like (a*)* cannot spin forever.
func (n *repetitionNode) extend(s *state, iters *[]token) {
	for n.max < 0 || len(*iters) < n.max {
		before := s.index
		t, ok := n.child.match(s)
		if !ok {
			return
		}
		*iters = append(*iters, t)
		if s.index == before && len(*iters) >= n.min {
			return
		}
	}
}

func (n *repetitionNode) match(s *state) (token, bool) {
	iters := []token{}
	if n.lazy {
		for len(iters) < n.min {
			if t, ok := n.child.match(s); ok {
				iters = append(iters, t)
				continue
			}
			if !n.varyLast(s, &iters) {
				return nil, false
			}
		}
		return &repetitionToken{iterations: iters}, true
	}

	n.extend(s, &iters)
	for len(iters) < n.min {
		if !n.varyLast(s, &iters) {
			return nil, false
		}
		n.extend(s, &iters)
	}
	return &repetitionToken{iterations: iters}, true
}

// varyLast backtracks the most recent iteration to its next alternative,
// popping exhausted iterations along the way. Returns false with all
// iterations rewound.
func (n *repetitionNode) varyLast(s *state, iters *[]token) bool {
	for len(*iters) > 0 {
		last := (*iters)[len(*iters)-1]
		*iters = (*iters)[:len(*iters)-1]
		if bt, ok := n.child.backtrack(s, last); ok {
			*iters = append(*iters, bt)
			return true
		}
	}
	return false
}

func (n *repetitionNode) backtrack(s *state, t token) (token, bool) {
	tok := t.(*repetitionToken)
	iters := tok.iterations

	if n.lazy {
		if n.max < 0 || len(iters) < n.max {
			before := s.index
			if nt, ok := n.child.match(s); ok {
				if s.index == before {
					n.child.discard(s, nt)
				} else {
					tok.iterations = append(iters, nt)
					return tok, true
				}
			}
		}
		for len(iters) > 0 {
			last := iters[len(iters)-1]
			iters = iters[:len(iters)-1]
			if bt, ok := n.child.backtrack(s, last); ok {
				tok.iterations = append(iters, bt)
				return tok, true
			}
			if len(iters) < n.min {
				for i := len(iters) - 1; i >= 0; i-- {
					n.child.discard(s, iters[i])
				}
				return nil, false
			}
		}
		return nil, false
	}

	for len(iters) > 0 {
		last := iters[len(iters)-1]
		iters = iters[:len(iters)-1]
		if bt, ok := n.child.backtrack(s, last); ok {
			iters = append(iters, bt)
			n.extend(s, &iters)
			tok.iterations = iters
			return tok, true
		}
		if len(iters) >= n.min {
			tok.iterations = iters
			return tok, true
		}
	}
	return nil, false
}

func (n *repetitionNode) discard(s *state, t token) {
	tok := t.(*repetitionToken)
	for i := len(tok.iterations) - 1; i >= 0; i-- {
		n.child.discard(s, tok.iterations[i])
	}
}

func (n *repetitionNode) invert() {
	n.child.invert()
}

// atomicNode is (?>p): once the inner expression has matched, backtracking
// never re-enters it.
type atomicNode struct {
	inner expression
}

type atomicToken struct {
	inner token
}

func (n *atomicNode) match(s *state) (token, bool) {
	t, ok := n.inner.match(s)
	if !ok {
		return nil, false
	}
	return &atomicToken{inner: t}, true
}

func (n *atomicNode) backtrack(s *state, t token) (token, bool) {
	n.inner.discard(s, t.(*atomicToken).inner)
	return nil, false
}

func (n *atomicNode) discard(s *state, t token) {
	n.inner.discard(s, t.(*atomicToken).inner)
}

func (n *atomicNode) invert() {
	n.inner.invert()
}

// proxyNode is a late-bound placeholder for expressions that cannot be
// resolved until every group is registered (numeric escapes that may be
// back-references or octal codes, named references). If the tree is
// inverted before resolution, the inversion is replayed when the real
// expression arrives.
type proxyNode struct {
	inner    expression
	inverted bool
}

func (n *proxyNode) setExpression(e expression) {
	n.inner = e
	if n.inverted {
		n.inner.invert()
	}
}

func (n *proxyNode) match(s *state) (token, bool) {
	return n.inner.match(s)
}

func (n *proxyNode) backtrack(s *state, t token) (token, bool) {
	return n.inner.backtrack(s, t)
}

func (n *proxyNode) discard(s *state, t token) {
	n.inner.discard(s, t)
}

func (n *proxyNode) invert() {
	if n.inner != nil {
		n.inner.invert()
		return
	}
	n.inverted = !n.inverted
}
