package ncre

import (
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

var charSetCmp = cmp.AllowUnexported(charSet{}, charRange{})

func set(ranges ...charRange) charSet {
	return charSet{chars: ranges}
}

func rg(lo, hi rune) charRange {
	return charRange{lo: lo, hi: hi}
}

func TestCharSetUnion(t *testing.T) {
	s := set(rg('a', 'c'))
	s.unionRange('e', 'g')
	assert.DeepEqual(t, s, set(rg('a', 'c'), rg('e', 'g')), charSetCmp)

	// Adjacent ranges coalesce.
	s.unionChar('d')
	assert.DeepEqual(t, s, set(rg('a', 'g')), charSetCmp)

	s = set(rg('b', 'd'))
	s.unionRange('a', 'z')
	assert.DeepEqual(t, s, set(rg('a', 'z')), charSetCmp)

	s = set(rg('a', 'e'))
	s.unionRange('c', 'h')
	assert.DeepEqual(t, s, set(rg('a', 'h')), charSetCmp)

	s = charSet{}
	s.unionChar('x')
	assert.DeepEqual(t, s, set(rg('x', 'x')), charSetCmp)
}

func TestCharSetSubtraction(t *testing.T) {
	s := set(rg('a', 'z'))
	s.subtraction(&charSet{chars: []charRange{rg('d', 'f')}})
	assert.DeepEqual(t, s, set(rg('a', 'c'), rg('g', 'z')), charSetCmp)

	s = set(rg('a', 'e'), rg('h', 'm'))
	s.subtraction(&charSet{chars: []charRange{rg('c', 'j')}})
	assert.DeepEqual(t, s, set(rg('a', 'b'), rg('k', 'm')), charSetCmp)

	s = set(rg('a', 'c'))
	s.subtraction(&charSet{chars: []charRange{rg('a', 'c')}})
	assert.DeepEqual(t, s, charSet{chars: []charRange{}}, charSetCmp)
}

func TestCharSetComplement(t *testing.T) {
	s := set(rg('b', 'd'))
	s.complement()
	assert.DeepEqual(t, s, set(rg(0, 'a'), rg('e', unicode.MaxRune)), charSetCmp)
	s.complement()
	assert.DeepEqual(t, s, set(rg('b', 'd')), charSetCmp)

	s = charSet{}
	s.complement()
	assert.DeepEqual(t, s, set(rg(0, unicode.MaxRune)), charSetCmp)

	s = set(rg(0, 'm'))
	s.complement()
	assert.DeepEqual(t, s, set(rg('n', unicode.MaxRune)), charSetCmp)
}

func TestCharSetContains(t *testing.T) {
	s := wordCharSet()
	for _, r := range "azAZ09_" {
		assert.Assert(t, s.containsRune(r), "%q", r)
	}
	for _, r := range " -.\n" {
		assert.Assert(t, !s.containsRune(r), "%q", r)
	}
	empty := charSet{}
	assert.Assert(t, !empty.containsRune('a'))

	d := dotCharSet()
	assert.Assert(t, d.containsRune('a'))
	assert.Assert(t, d.containsRune('\r'))
	assert.Assert(t, !d.containsRune('\n'))
}
