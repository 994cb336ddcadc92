package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackTag(t *testing.T) {
	tag := PackTag(TypeFourBytes, 0x2A)
	wt, id := UnpackTag(tag)
	assert.Equal(t, TypeFourBytes, wt)
	assert.Equal(t, uint16(0x2A), id)
}

func TestPackTagIgnoresReservedBit(t *testing.T) {
	tag := PackTag(TypeOneByte, 0xFFFF)
	_, id := UnpackTag(tag)
	assert.Equal(t, uint16(0x0FFF), id)
	assert.Equal(t, uint16(0), tag&0x8000)
}

func TestCheckCompatibility(t *testing.T) {
	require.NoError(t, Check(TypeFourBytes, TypeFourBytes))
	require.NoError(t, Check(TypeLengthDelimitedFromConfig, TypeLengthDelimitedTwoBytes))
	require.NoError(t, Check(TypeLengthDelimitedOneByte, TypeLengthDelimitedFourBytes))

	err := Check(TypeFourBytes, TypeEightBytes)
	require.Error(t, err)
	assert.Equal(t, KindInvalidWireType, err.(*Error).Kind)

	err = Check(TypeOneByte, TypeLengthDelimitedOneByte)
	require.Error(t, err)
}

func TestFixedSizeAndLengthFieldWidth(t *testing.T) {
	size, ok := TypeFourBytes.FixedSize()
	assert.True(t, ok)
	assert.Equal(t, 4, size)

	_, ok = TypeLengthDelimitedFromConfig.FixedSize()
	assert.False(t, ok)

	w, ok := TypeLengthDelimitedTwoBytes.LengthFieldWidth()
	assert.True(t, ok)
	assert.Equal(t, Width2, w)

	_, ok = TypeLengthDelimitedFromConfig.LengthFieldWidth()
	assert.False(t, ok)
}
