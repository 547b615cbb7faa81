package tlv

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarNumEncode(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0}},
		{5, []byte{5}},
		{0xFC, []byte{0xFC}},
		{0xFD, []byte{0xFD, 0x00, 0xFD}},
		{0xFF, []byte{0xFD, 0x00, 0xFF}},
		{0xFFFF, []byte{0xFD, 0xFF, 0xFF}},
		{0x10000, []byte{0xFE, 0x00, 0x01, 0x00, 0x00}},
		{0xFFFF_FFFF, []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF}},
		{0x1_0000_0000, []byte{0xFF, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}},
		{math.MaxUint64, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%#x", tt.v), func(t *testing.T) {
			n := VarNum(tt.v)
			require.Equal(t, tt.want, n.Encode())
			require.Equal(t, len(tt.want), n.Size())

			cur := NewCursor(append(n.Encode(), 0xAA))
			v, err := DecodeVarNum(cur)
			require.NoError(t, err)
			require.Equal(t, tt.v, v)
			require.Equal(t, []byte{0xAA}, cur.Bytes())
		})
	}
}

func TestVarNumDecodeNonMinimal(t *testing.T) {
	tests := []struct {
		wire []byte
		want uint64
	}{
		{[]byte{0xFD, 0x00, 0x05}, 5},
		{[]byte{0xFE, 0x00, 0x00, 0x00, 0x05}, 5},
		{[]byte{0xFF, 0, 0, 0, 0, 0, 0, 0, 0x05}, 5},
		{[]byte{0xFE, 0x00, 0x00, 0xFF, 0xFF}, 0xFFFF},
		{[]byte{0xFF, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFF_FFFF},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("% x", tt.wire), func(t *testing.T) {
			var n VarNum
			cur := NewCursor(tt.wire)
			require.NoError(t, n.Decode(cur))
			require.Equal(t, VarNum(tt.want), n)
			require.Equal(t, 0, cur.Len())
		})
	}
}

func TestVarNumDecodeTruncated(t *testing.T) {
	tests := [][]byte{
		nil,
		{0xFD},
		{0xFD, 0x01},
		{0xFE},
		{0xFE, 0x01, 0x02, 0x03},
		{0xFF},
		{0xFF, 1, 2, 3, 4, 5, 6, 7},
	}
	for _, wire := range tests {
		t.Run(fmt.Sprintf("% x", wire), func(t *testing.T) {
			cur := NewCursor(wire)
			_, err := DecodeVarNum(cur)
			require.Error(t, err)
			require.True(t, IsUnexpectedEndOfStream(err), err)
			require.Equal(t, len(wire), cur.Len(), "cursor must be left untouched")
		})
	}
}

func TestVarNumRoundTrip(t *testing.T) {
	for shift := 0; shift < 64; shift++ {
		for _, delta := range []int64{-1, 0, 1} {
			v := uint64(int64(1)<<shift + delta)
			if shift == 63 && delta == 1 {
				v = math.MaxUint64
			}
			n := VarNum(v)
			bts := n.Encode()
			require.Equal(t, n.Size(), len(bts))

			var d VarNum
			require.NoError(t, d.Decode(NewCursor(bts)))
			require.Equal(t, n, d)
		}
	}
}

func TestIsCritical(t *testing.T) {
	tests := []struct {
		typ  uint64
		want bool
	}{
		{0, true},
		{8, true},
		{30, true},
		{31, true},
		{32, false},
		{33, true},
		{126, false},
		{127, true},
		{0xFD, true},
		{0xFFFE, false},
		{math.MaxUint64, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.typ), func(t *testing.T) {
			require.Equal(t, tt.want, IsCritical(tt.typ))
			require.Equal(t, tt.want, Element{Type: tt.typ}.Critical())
		})
	}
	require.True(t, RecordCritical(component{}))
	require.False(t, RecordCritical(Element{Type: 128}))
}
