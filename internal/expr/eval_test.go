package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/axisflow/internal/axis"
)

func TestEvaluate(t *testing.T) {
	bindings := Bindings{
		axis.K("stick", axis.X):      100,
		axis.K("stick", axis.Y):      -40,
		axis.K("pedals", axis.Gas):   255,
		axis.K("pedals", axis.Brake): 55,
	}

	testCases := []struct {
		input    string
		expected int32
	}{
		{input: "2 + 1 * (1 + 2)", expected: 5},
		{input: "2 + 3 * 4", expected: 14},
		{input: "(2 + 3) * 4", expected: 20},
		{input: "10 - 3 - 2", expected: 5},
		{input: "7 / 2", expected: 3},
		{input: "-7 / 2", expected: -3},
		{input: "stick:X + stick:Y", expected: 60},
		{input: "pedals:Gas - pedals:Brake", expected: 200},
		{input: "(stick:X - stick:Y) / 2 * -1", expected: -70},
		{input: "42", expected: 42},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Evaluate(MustParse(tc.input), bindings)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEvaluate_MissingBinding(t *testing.T) {
	_, err := Evaluate(MustParse("stick:X + stick:Z"), Bindings{axis.K("stick", axis.X): 1})
	require.Error(t, err)

	var merr *MissingBindingError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, axis.K("stick", axis.Z), merr.Key)
}

func TestEvaluate_LeftOperandFailsFirst(t *testing.T) {
	_, err := Evaluate(MustParse("a:X + b:Y"), Bindings{})
	var merr *MissingBindingError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, axis.K("a", axis.X), merr.Key)
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	_, err := Evaluate(MustParse("a:X / (a:Y - a:Y)"), Bindings{
		axis.K("a", axis.X): 10,
		axis.K("a", axis.Y): 3,
	})
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEvaluate_Overflow(t *testing.T) {
	testCases := []string{
		"2147483647 + 1",
		"-2147483648 - 1",
		"65536 * 65536",
		"-2147483648 / -1",
	}
	for _, in := range testCases {
		t.Run(in, func(t *testing.T) {
			_, err := Evaluate(MustParse(in), nil)
			assert.ErrorIs(t, err, ErrOverflow)
		})
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	e := MustParse("a:X * 3 - a:Y")
	b := Bindings{axis.K("a", axis.X): 7, axis.K("a", axis.Y): 1}
	snapshot := Bindings{axis.K("a", axis.X): 7, axis.K("a", axis.Y): 1}

	first, err := Evaluate(e, b)
	require.NoError(t, err)
	second, err := Evaluate(e, b)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(20), first)
	assert.Equal(t, snapshot, b, "bindings must not be modified")
	assert.Equal(t, MustParse("a:X * 3 - a:Y"), e, "tree must not be modified")
}

func TestDependencies(t *testing.T) {
	testCases := []struct {
		input    string
		expected []axis.Key
	}{
		{
			input:    "A:X + B:Y - A:X",
			expected: []axis.Key{axis.K("A", axis.X), axis.K("B", axis.Y)},
		},
		{
			input:    "(B:Y * A:X) / (A:X + C:Z)",
			expected: []axis.Key{axis.K("B", axis.Y), axis.K("A", axis.X), axis.K("C", axis.Z)},
		},
		{
			input:    "A:X - A:Y",
			expected: []axis.Key{axis.K("A", axis.X), axis.K("A", axis.Y)},
		},
		{
			input:    "1 + 2",
			expected: nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, Dependencies(MustParse(tc.input)))
		})
	}
}
