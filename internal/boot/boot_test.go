package boot

import (
	"testing"

	"github.com/cespare/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRejectsWrongLength(t *testing.T) {
	_, err := Load(make([]byte, 100))
	assert.Error(t, err)
}

func TestLoadAcceptsExactSize(t *testing.T) {
	raw := make([]byte, Size)
	raw[0] = 0x31
	rom, err := Load(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, rom.Bytes())
	assert.Equal(t, xxhash.Sum64(raw), rom.Hash())
}

func TestLoadCopiesInput(t *testing.T) {
	raw := make([]byte, Size)
	rom, err := Load(raw)
	require.NoError(t, err)

	raw[0] = 0xFF
	assert.NotEqual(t, raw[0], rom.Bytes()[0], "Load must not alias the caller's slice")
}
