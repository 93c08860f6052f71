package signal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Scalars(t *testing.T) {
	for raw, want := range map[string]string{"0": "0", "1": "1", "x": "x", "X": "x", "z": "z", "Z": "z"} {
		v, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, Scalar, v.Kind(), raw)
		assert.Equal(t, want, v.String(), raw)
		assert.Equal(t, 1, v.Width(), raw)
	}
}

func TestParse_Vectors(t *testing.T) {
	v, err := Parse("B01xZ")
	require.NoError(t, err)
	assert.Equal(t, Vector, v.Kind())
	assert.Equal(t, "b01xz", v.String())
	assert.Equal(t, 4, v.Width())
	assert.Equal(t, Hi, v.Bit(1))
	assert.Equal(t, Z, v.Bit(3))
	assert.False(t, v.Known())
}

func TestParse_RejectsForeignSymbols(t *testing.T) {
	for _, raw := range []string{"", "2", "10", "b", "b012", "bU", "r", "h1f"} {
		_, err := Parse(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestDecodeBool(t *testing.T) {
	ok, err := DecodeBool(MustParse("1"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DecodeBool(MustParse("0"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = DecodeBool(MustParse("b1"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecodeBool_Failures(t *testing.T) {
	cases := map[string]error{
		"x":    ErrIndeterminate,
		"Z":    ErrIndeterminate,
		"b10":  ErrNotScalar,
		"r1.0": ErrNotLogic,
	}
	for raw, want := range cases {
		_, err := DecodeBool(MustParse(raw))
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, want), "%s: got %v", raw, err)

		var de *DecodeError
		assert.True(t, errors.As(err, &de), raw)
	}

	_, err := DecodeBool(Value{})
	assert.True(t, errors.Is(err, ErrUnset))
	assert.True(t, Indeterminate(err))
}

func TestDecodeUnsigned(t *testing.T) {
	n, err := DecodeUnsigned(MustParse("b00000101"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	n, err = DecodeUnsigned(MustParse("1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	_, err = DecodeUnsigned(MustParse("b1x01"))
	assert.True(t, errors.Is(err, ErrIndeterminate))
	assert.True(t, Indeterminate(err))
}

func TestDecodeUnsigned_WideVectors(t *testing.T) {
	wide := "b" + strings.Repeat("0", 36) + "1" + strings.Repeat("0", 63)
	n, err := DecodeUnsigned(MustParse(wide))
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, n)

	over := "b1" + strings.Repeat("0", 64)
	_, err = DecodeUnsigned(MustParse(over))
	assert.True(t, errors.Is(err, ErrOverflow))
	assert.False(t, Indeterminate(err))
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, width := range []int{1, 3, 8, 13, 40} {
		limit := uint64(1) << uint(width)
		step := uint64(1)
		if width > 10 {
			step = limit/997 + 1
		}
		for n := uint64(0); n < limit; n += step {
			v := Encode(n, width)
			require.Equal(t, width, v.Width())
			got, err := DecodeUnsigned(v)
			require.NoError(t, err)
			require.Equal(t, n, got, "width %d", width)
		}
	}

	for _, n := range []uint64{0, 1, 0xdeadbeef, 1<<63 | 1, ^uint64(0)} {
		got, err := DecodeUnsigned(Encode(n, 64))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
