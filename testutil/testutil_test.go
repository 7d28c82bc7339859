package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Values(100, 8)

	assert.Len(t, v, 100)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, 0)
		assert.Less(t, x, 8)
	}
}

func TestSkewedValues(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.SkewedValues(1000, 64, 1.5)

	assert.Len(t, v, 1000)
	zeros := 0
	for _, x := range v {
		assert.GreaterOrEqual(t, x, 0)
		assert.Less(t, x, 64)
		if x == 0 {
			zeros++
		}
	}
	// P(0) is roughly 0.4 for s=1.5 over 64 buckets.
	assert.Greater(t, zeros, 200)
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	a := rng.Values(10, 1000)
	rng.Reset()
	b := rng.Values(10, 1000)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(42), rng.Seed())
}

func TestPermutation(t *testing.T) {
	rng := NewRNG(1)
	p := rng.Permutation(16)

	assert.Len(t, p, 16)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, p)
}

func TestDistinctInOrder(t *testing.T) {
	assert.Equal(t, []int{3, 1, 5}, DistinctInOrder([]int{3, 1, 3, 5, 1}))
	assert.Empty(t, DistinctInOrder([]int(nil)))
}

func TestStripWhitespace(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		quotes  []Quote
		ignored []string
		want    string
	}{
		{name: "plain", input: " a b\tc\n", want: "abc"},
		{name: "empty", input: "", want: ""},
		{name: "unicode space", input: "a b c", want: "abc"},
		{name: "quoted", input: `[ "a b" , 1 ]`, quotes: JSONQuotes, ignored: JSONEscapes, want: `["a b",1]`},
		{name: "escaped quote", input: `{ "k": "say \"hi there\"" }`, quotes: JSONQuotes, ignored: JSONEscapes, want: `{"k":"say \"hi there\""}`},
		{name: "escaped backslash closes", input: `[ "a\\" , "b c" ]`, quotes: JSONQuotes, ignored: JSONEscapes, want: `["a\\","b c"]`},
		{name: "unterminated", input: `x "a b`, quotes: JSONQuotes, ignored: JSONEscapes, want: `x"a b`},
		{name: "asymmetric quotes", input: `f ( a b ) g`, quotes: []Quote{{Open: "(", Close: ")"}}, want: `f( a b )g`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripWhitespace(tt.input, tt.quotes, tt.ignored))
		})
	}
}

func TestJSONEq(t *testing.T) {
	assert.True(t, JSONEq("[1, 2, 3]", "[1,2,3]"))
	assert.True(t, JSONEq("[\n  1,\n  2\n]", "[1,2]"))
	assert.False(t, JSONEq("[1, 2]", "[2, 1]"))
	assert.False(t, JSONEq(`["a b"]`, `["ab"]`))
}
