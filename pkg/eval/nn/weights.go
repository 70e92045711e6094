// Package nn implements a compact, NNUE-style neural network evaluator:
// a sparse king-relative input layer feeding a small fully connected
// hidden layer, kept in sync with the board incrementally as moves are
// made and unmade rather than recomputed from scratch every node. The
// feature indexing is a half-king-relative piece encoding (features.go),
// built on this module's own bitboard Position.
package nn

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	magic      uint32 = 0x544E4E55 // "UNNT" little-endian
	formatVers uint32 = 1
)

// Dims describes a network's layer sizes, read from the weights file
// header so a single loader supports differently sized nets. Output is
// carried explicitly even though this topology only supports a single
// scalar output, so the wire format can grow into a wider output layer
// without a version bump.
type Dims struct {
	Input  int32 // input feature count per perspective (e.g. 64*64*10)
	Hidden int32 // hidden layer width
	Output int32 // output width, always 1 for this topology
}

// Features is an alias kept for callers that think in terms of the input
// feature count rather than the full Dims triple.
func (d Dims) Features() int32 { return d.Input }

// Weights holds one fully loaded network: int16 weights/biases for the
// input->hidden accumulator layer (kept incremental) and int8 weights
// plus an int32 bias for the hidden->output layer.
type Weights struct {
	Dims Dims

	InputWeights []int16 // Features*Hidden, row-major by feature
	InputBias    []int16 // Hidden

	OutputWeights []int8 // Hidden
	OutputBias    int32
}

// Load reads a network from the fixed binary layout:
//
//	uint32 magic
//	uint32 version
//	uint32 input dim
//	uint32 hidden dim
//	uint32 output dim
//	int16[input*hidden] hidden weights
//	int16[hidden]        hidden biases
//	int8[hidden]         output weights
//	int32                output bias
//	uint32               checksum: sum of every preceding byte as uint8, mod 2^32
func Load(r io.Reader) (*Weights, error) {
	var buf []byte
	{
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("nn: read weights: %w", err)
		}
		buf = data
	}
	if len(buf) < 4+4+4+4+4+4 {
		return nil, fmt.Errorf("nn: weights file too short")
	}

	checksum := binary.LittleEndian.Uint32(buf[len(buf)-4:])
	body := buf[:len(buf)-4]

	var sum uint32
	for _, b := range body {
		sum += uint32(b)
	}
	if sum != checksum {
		return nil, fmt.Errorf("nn: checksum mismatch")
	}

	off := 0
	readU32 := func() uint32 {
		v := binary.LittleEndian.Uint32(body[off:])
		off += 4
		return v
	}
	readI32 := func() int32 { return int32(readU32()) }

	if m := readU32(); m != magic {
		return nil, fmt.Errorf("nn: bad magic %x", m)
	}
	if v := readU32(); v != formatVers {
		return nil, fmt.Errorf("nn: unsupported version %d", v)
	}

	dims := Dims{Input: readI32(), Hidden: readI32(), Output: readI32()}
	if dims.Input <= 0 || dims.Hidden <= 0 || dims.Output != 1 {
		return nil, fmt.Errorf("nn: invalid dims %+v", dims)
	}

	w := &Weights{Dims: dims}

	n := int(dims.Input) * int(dims.Hidden)
	w.InputWeights = make([]int16, n)
	for i := 0; i < n; i++ {
		w.InputWeights[i] = int16(binary.LittleEndian.Uint16(body[off:]))
		off += 2
	}

	w.InputBias = make([]int16, dims.Hidden)
	for i := range w.InputBias {
		w.InputBias[i] = int16(binary.LittleEndian.Uint16(body[off:]))
		off += 2
	}

	w.OutputWeights = make([]int8, dims.Hidden)
	for i := range w.OutputWeights {
		w.OutputWeights[i] = int8(body[off])
		off++
	}

	w.OutputBias = readI32()

	if off != len(body) {
		return nil, fmt.Errorf("nn: trailing %d bytes after expected payload", len(body)-off)
	}

	return w, nil
}

// Save writes w back out in the same format Load reads, primarily for
// tests and for tools that train or tweak a network in process.
func Save(w io.Writer, wts *Weights) error {
	var body []byte
	putU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		body = append(body, b[:]...)
	}
	putI32 := func(v int32) { putU32(uint32(v)) }

	putU32(magic)
	putU32(formatVers)
	putI32(wts.Dims.Input)
	putI32(wts.Dims.Hidden)
	putI32(wts.Dims.Output)

	for _, v := range wts.InputWeights {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		body = append(body, b[:]...)
	}
	for _, v := range wts.InputBias {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		body = append(body, b[:]...)
	}
	for _, v := range wts.OutputWeights {
		body = append(body, byte(v))
	}
	putI32(wts.OutputBias)

	var sum uint32
	for _, b := range body {
		sum += uint32(b)
	}
	putU32(sum)

	_, err := w.Write(body)
	return err
}
