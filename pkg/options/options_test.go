package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsValidate(t *testing.T) {
	o := Default()
	require.NoError(t, o.Validate())
	assert.Equal(t, BigEndian, o.ByteOrder)
	assert.Equal(t, Utf8, o.StringEncoding)
	require.NotNil(t, o.DefaultLengthFieldSize)
	assert.Equal(t, FourBytes, *o.DefaultLengthFieldSize)
}

func TestAsciiWithBOMIsInvalid(t *testing.T) {
	o := Default()
	o.StringEncoding = Ascii
	o.StringWithBOM = true
	require.Error(t, o.Validate())
}

func TestIsUTF16Variant(t *testing.T) {
	assert.True(t, Utf16.IsUTF16Variant())
	assert.True(t, Utf16Le.IsUTF16Variant())
	assert.True(t, Utf16Be.IsUTF16Variant())
	assert.False(t, Utf8.IsUTF16Variant())
	assert.False(t, Ascii.IsUTF16Variant())
}
