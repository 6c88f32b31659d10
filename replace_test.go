package ncre

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func replace(t *testing.T, pattern, input, template string, count, start int) string {
	t.Helper()
	out, err := MustCompile(pattern, 0).Replace(input, template, count, start)
	assert.NilError(t, err)
	return out
}

func TestReplace(t *testing.T) {
	assert.Equal(t, replace(t, "an", "banana", "x", -1, 0), "bxxa")
	assert.Equal(t, replace(t, "an", "banana", "x", 1, 0), "bxana")
	assert.Equal(t, replace(t, "an", "banana", "x", 0, 0), "banana")
	assert.Equal(t, replace(t, "an", "banana", "x", -1, 2), "banxa")
	assert.Equal(t, replace(t, "q", "banana", "x", -1, 0), "banana")

	_, err := MustCompile("a", 0).Replace("a", "x", -2, 0)
	assert.ErrorContains(t, err, "out of range")
}

func TestReplaceSubstitutions(t *testing.T) {
	assert.Equal(t, replace(t, "(a)(n)", "banana", "$2$1", -1, 0), "bnanaa")
	assert.Equal(t, replace(t, "(?<v>a)", "cat", "[${v}]", -1, 0), "c[a]t")
	assert.Equal(t, replace(t, "a", "cat", "$$", -1, 0), "c$t")
	assert.Equal(t, replace(t, "a", "cat", "<$&>", -1, 0), "c<a>t")
	// Tokens that name nothing stay literal.
	assert.Equal(t, replace(t, "(a)", "cat", "$9", -1, 0), "c$9t")
	assert.Equal(t, replace(t, "(a)", "cat", "${x}", -1, 0), "c${x}t")
	// The longest digit run naming a group wins.
	assert.Equal(t, replace(t, "(a)", "cat", "$12", -1, 0), "ca2t")
}

func TestReplaceZeroWidthMatches(t *testing.T) {
	assert.Equal(t, replace(t, "a*", "bb", "-", -1, 0), "-b-b-")
}

func TestReplaceRightToLeft(t *testing.T) {
	re := MustCompile("a", FlagRightToLeft)
	out, err := re.Replace("banana", "x", 1, 6)
	assert.NilError(t, err)
	assert.Equal(t, out, "bananx")
	out, err = re.Replace("banana", "x", 2, 6)
	assert.NilError(t, err)
	assert.Equal(t, out, "banxnx")
}

func TestReplaceFunc(t *testing.T) {
	re := MustCompile(`\w+`, 0)
	out, err := re.ReplaceFunc("one two", func(m *Match) string {
		return strings.ToUpper(m.Value())
	}, -1, 0)
	assert.NilError(t, err)
	assert.Equal(t, out, "ONE TWO")

	out, err = re.ReplaceFunc("one two", func(m *Match) string {
		return strings.ToUpper(m.Value())
	}, 1, 0)
	assert.NilError(t, err)
	assert.Equal(t, out, "ONE two")
}

func TestResult(t *testing.T) {
	m := MustCompile(`(\w+) (\w+)`, 0).Match("hello world")
	out, err := m.Result("$2 $1")
	assert.NilError(t, err)
	assert.Equal(t, out, "world hello")

	m = MustCompile("b", 0).Match("abc")
	for _, c := range []struct{ template, want string }{
		{"$`", "a"},
		{"$'", "c"},
		{"$_", "abc"},
		{"$&", "b"},
		{"$$", "$"},
	} {
		out, err := m.Result(c.template)
		assert.NilError(t, err)
		assert.Equal(t, out, c.want, "template %q", c.template)
	}

	// $+ names the last successful group in reporting order.
	m = MustCompile(`(?<A>a)(?<B>c)?`, 0).Match("ac")
	out, err = m.Result("$+")
	assert.NilError(t, err)
	assert.Equal(t, out, "c")

	m = MustCompile("x", 0).Match("abc")
	_, err = m.Result("$&")
	assert.ErrorContains(t, err, "no match")
}

func TestSplit(t *testing.T) {
	split := func(pattern, input string, count, start int) []string {
		t.Helper()
		out, err := MustCompile(pattern, 0).Split(input, count, start)
		assert.NilError(t, err)
		return out
	}
	assert.DeepEqual(t, split(",", "a,b,c", -1, 0), []string{"a", "b", "c"})
	assert.DeepEqual(t, split(",", "a,b,c", 0, 0), []string{"a", "b", "c"})
	assert.DeepEqual(t, split(",", "a,b,c", 2, 0), []string{"a", "b,c"})
	assert.DeepEqual(t, split(",", "a,b,c", 1, 0), []string{"a,b,c"})
	assert.DeepEqual(t, split(",", "abc", -1, 0), []string{"abc"})
	assert.DeepEqual(t, split(",", ",a,", -1, 0), []string{"", "a", ""})
	// Successful capture groups are kept between the pieces.
	assert.DeepEqual(t, split("(,)", "a,b", -1, 0), []string{"a", ",", "b"})
	assert.DeepEqual(t, split("(x)?,", "a,b", -1, 0), []string{"a", "b"})

	_, err := MustCompile(",", 0).Split("a,b", -2, 0)
	assert.ErrorContains(t, err, "out of range")
}

func TestSplitRightToLeft(t *testing.T) {
	re := MustCompile(",", FlagRightToLeft)
	out, err := re.Split("a,b,c", -1, 5)
	assert.NilError(t, err)
	assert.DeepEqual(t, out, []string{"c", "b", "a"})

	out, err = re.Split("a,b,c", 2, 5)
	assert.NilError(t, err)
	assert.DeepEqual(t, out, []string{"c", "a,b"})
}

func TestEscape(t *testing.T) {
	assert.Equal(t, Escape("a*b"), `a\*b`)
	assert.Equal(t, Escape("1+1=2"), `1\+1=2`)
	assert.Equal(t, Escape("a b"), `a\ b`)
	assert.Equal(t, Escape("x\ty\n"), `x\ty\n`)
	assert.Equal(t, Escape(`(a)[b]{c}^$.#|?*+\`), `\(a\)\[b]\{c}\^\$\.\#\|\?\*\+\\`)
	assert.Equal(t, Escape("plain"), "plain")
}

func TestUnescape(t *testing.T) {
	un := func(s string) string {
		t.Helper()
		out, err := Unescape(s)
		assert.NilError(t, err)
		return out
	}
	assert.Equal(t, un(`a\*b`), "a*b")
	assert.Equal(t, un(`\x41B`), "AB")
	assert.Equal(t, un(`\t\n\f\r`), "\t\n\f\r")
	assert.Equal(t, un(`\b`), "\b")
	assert.Equal(t, un(`\cA`), "\x01")
	assert.Equal(t, un(Escape(`a*b (c)`)), `a*b (c)`)

	_, err := Unescape(`broken\`)
	assert.ErrorContains(t, err, "escape at end")
	_, err = Unescape(`\q`)
	assert.Assert(t, err != nil)
}
