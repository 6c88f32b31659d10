package ncre

import (
	"sort"
	"strings"
	"unicode"
)

// group is the identity of a capture group. Nodes and match results refer
// to groups by pointer; the name is "0", a decimal number, or an
// identifier. Numbered and named groups share one namespace.
type group struct {
	name string
}

// groupTable tracks every group of a pattern in declaration order, the
// order of opening parentheses. Reporting order is derived from it by
// collapsedOrder, in which named groups may precede numbered ones.
type groupTable struct {
	byName map[string]*group
	order  []*group
}

func newGroupTable() *groupTable {
	t := &groupTable{byName: map[string]*group{}}
	t.declare("0")
	return t
}

func (t *groupTable) lookup(name string) (*group, bool) {
	g, ok := t.byName[name]
	return g, ok
}

// declare registers a group name, reusing the existing identity when a
// pattern mentions the same name twice.
func (t *groupTable) declare(name string) *group {
	if g, ok := t.byName[name]; ok {
		return g
	}
	g := &group{name: name}
	t.byName[name] = g
	t.order = append(t.order, g)
	return g
}

func isNumericName(name string) bool {
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(name) > 0
}

// collapsedOrder returns the groups in reporting order. Slots 0, 1, 2, ...
// are filled in turn: a slot takes the numbered group with that number if
// one exists, and otherwise the next named group in declaration order.
// Once either kind runs out, the rest of the other kind follows.
func (t *groupTable) collapsedOrder() []*group {
	var nums []*group
	var named []*group
	for _, g := range t.order {
		if isNumericName(g.name) {
			nums = append(nums, g)
		} else {
			named = append(named, g)
		}
	}
	sort.Slice(nums, func(i, j int) bool {
		return groupNumber(nums[i]) < groupNumber(nums[j])
	})

	ordered := make([]*group, 0, len(t.order))
	ni := 0
	mi := 0
	for next := 0; ni < len(nums) || mi < len(named); next++ {
		if ni < len(nums) && groupNumber(nums[ni]) == next {
			ordered = append(ordered, nums[ni])
			ni++
			continue
		}
		if mi < len(named) {
			ordered = append(ordered, named[mi])
			mi++
			continue
		}
		ordered = append(ordered, nums[ni])
		ni++
	}
	return ordered
}

func groupNumber(g *group) int {
	n := 0
	for _, r := range g.name {
		n = n*10 + int(r-'0')
	}
	return n
}

// groupNode is a capturing group (p). On each successful match of the
// inner expression it pushes a capture onto the group's stack; the stack
// records the full history so balancing groups and conditionals can see
// earlier captures.
type groupNode struct {
	inner expression
	g     *group
}

type groupToken struct {
	inner token
	start int
}

func (n *groupNode) match(s *state) (token, bool) {
	start := s.index
	t, ok := n.inner.match(s)
	if !ok {
		return nil, false
	}
	s.pushCapture(n.g, start, s.index)
	return &groupToken{inner: t, start: start}, true
}

func (n *groupNode) backtrack(s *state, t token) (token, bool) {
	tok := t.(*groupToken)
	s.popCapture(n.g)
	bt, ok := n.inner.backtrack(s, tok.inner)
	if !ok {
		return nil, false
	}
	s.pushCapture(n.g, tok.start, s.index)
	tok.inner = bt
	return tok, true
}

func (n *groupNode) discard(s *state, t token) {
	tok := t.(*groupToken)
	s.popCapture(n.g)
	n.inner.discard(s, tok.inner)
}

func (n *groupNode) invert() {
	n.inner.invert()
}

// balancingGroupNode is (?<push-pop>p) or (?<-pop>p). It refuses to match
// unless pop has a pending capture; on success it removes that capture
// and, when push is present, records the span between the removed capture
// and the current iteration.
type balancingGroupNode struct {
	inner expression
	push  *group // nil for (?<-pop>p)
	pop   *group
}

type balancingGroupToken struct {
	inner  token
	popped captureValue
	start  int
}

// balancedSpan is the middle two of the four boundary positions, which is
// the text between the popped capture and the current iteration no matter
// which side of the other each lies on.
func balancedSpan(popped captureValue, start, end int) (int, int) {
	pts := []int{popped.start, popped.end, start, end}
	sort.Ints(pts)
	return pts[1], pts[2]
}

func (n *balancingGroupNode) match(s *state) (token, bool) {
	if !s.hasCapture(n.pop) {
		return nil, false
	}
	start := s.index
	t, ok := n.inner.match(s)
	if !ok {
		return nil, false
	}
	popped := s.popCapture(n.pop)
	if n.push != nil {
		lo, hi := balancedSpan(popped, start, s.index)
		s.pushCapture(n.push, lo, hi)
	}
	return &balancingGroupToken{inner: t, popped: popped, start: start}, true
}

func (n *balancingGroupNode) backtrack(s *state, t token) (token, bool) {
	tok := t.(*balancingGroupToken)
	if n.push != nil {
		s.popCapture(n.push)
	}
	s.pushCapture(n.pop, tok.popped.start, tok.popped.end)
	bt, ok := n.inner.backtrack(s, tok.inner)
	if !ok {
		return nil, false
	}
	popped := s.popCapture(n.pop)
	if n.push != nil {
		lo, hi := balancedSpan(popped, tok.start, s.index)
		s.pushCapture(n.push, lo, hi)
	}
	tok.inner = bt
	tok.popped = popped
	return tok, true
}

func (n *balancingGroupNode) discard(s *state, t token) {
	tok := t.(*balancingGroupToken)
	if n.push != nil {
		s.popCapture(n.push)
	}
	s.pushCapture(n.pop, tok.popped.start, tok.popped.end)
	n.inner.discard(s, tok.inner)
}

func (n *balancingGroupNode) invert() {
	n.inner.invert()
}

// referenceNode is a back-reference \k<name> or \n. It consumes text equal
// to the group's most recent capture and fails when the group has not
// captured.
type referenceNode struct {
	g          *group
	ignoreCase bool
}

type referenceToken struct {
	length int
}

func foldEqual(a, b []rune, ignoreCase bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		if !ignoreCase {
			return false
		}
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

func (n *referenceNode) match(s *state) (token, bool) {
	cap, ok := s.topCapture(n.g)
	if !ok {
		return nil, false
	}
	length := cap.end - cap.start
	text, ok := s.peek(length)
	if !ok {
		return nil, false
	}
	if !foldEqual(text, s.input[cap.start:cap.end], n.ignoreCase) {
		return nil, false
	}
	s.advance(length)
	return referenceToken{length: length}, true
}

func (n *referenceNode) backtrack(s *state, t token) (token, bool) {
	s.advance(-t.(referenceToken).length)
	return nil, false
}

func (n *referenceNode) discard(s *state, t token) {
	s.advance(-t.(referenceToken).length)
}

func (n *referenceNode) invert() {}

// runesToString is a convenience for capture text.
func runesToString(rs []rune) string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteRune(r)
	}
	return b.String()
}
