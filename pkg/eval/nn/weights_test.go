package nn

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeights() *Weights {
	return &Weights{
		Dims:          Dims{Input: 2, Hidden: 3, Output: 1},
		InputWeights:  []int16{1, 2, 3, -1, -2, -3},
		InputBias:     []int16{10, 20, 30},
		OutputWeights: []int8{1, -1, 2},
		OutputBias:    5,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	want := testWeights()

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, want))

	got, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, want.Dims, got.Dims)
	assert.Equal(t, want.InputWeights, got.InputWeights)
	assert.Equal(t, want.InputBias, got.InputBias)
	assert.Equal(t, want.OutputWeights, got.OutputWeights)
	assert.Equal(t, want.OutputBias, got.OutputBias)
}

func TestLoadRejectsCorruptChecksum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, testWeights()))

	data := buf.Bytes()
	data[0] ^= 0xFF // corrupt a header byte without touching the checksum

	_, err := Load(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestLoadRejectsUnsupportedOutputDim(t *testing.T) {
	w := testWeights()
	w.Dims.Output = 2

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, w))

	_, err := Load(&buf)
	assert.Error(t, err)
}
