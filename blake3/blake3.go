// Package blake3 implements the BLAKE3 hash function in its three modes:
// plain hashing, 32-byte keyed hashing, and key derivation from a context
// string. Every mode doubles as an extendable-output function whose
// stream is seekable in constant time.
package blake3

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	// BlockSize is the compression function block size in bytes.
	BlockSize = 64
	// ChunkSize is the chunk size of the hash tree in bytes.
	ChunkSize = 1024
	// Size is the default digest size in bytes.
	Size = 32
	// KeySize is the exact key size of the keyed mode in bytes.
	KeySize = 32
)

// node is a compression function input paired with the flags and counter
// it will be compressed with. The root node is retained by OutputReader
// so that any output block can be produced directly.
type node struct {
	cv       [8]uint32
	block    [16]uint32
	counter  uint64
	blockLen uint32
	flags    uint32
}

func (n node) chainingValue() [8]uint32 {
	return firstEight(compress(n.cv, n.block, n.counter, n.blockLen, n.flags))
}

func parentNode(left, right [8]uint32, key [8]uint32, flags uint32) node {
	n := node{
		cv:       key,
		counter:  0,
		blockLen: BlockSize,
		flags:    flags | flagParent,
	}
	copy(n.block[:8], left[:])
	copy(n.block[8:], right[:])
	return n
}

// chunkState hashes one 1024-byte chunk of input.
type chunkState struct {
	n           uint64 // chunk index
	cv          [8]uint32
	block       [BlockSize]byte
	blockLen    int
	nCompressed int
	flags       uint32
}

func newChunkState(key [8]uint32, n uint64, flags uint32) chunkState {
	return chunkState{n: n, cv: key, flags: flags}
}

func (cs *chunkState) startFlag() uint32 {
	if cs.nCompressed == 0 {
		return flagChunkStart
	}
	return 0
}

func (cs *chunkState) consumed() int {
	return cs.nCompressed*BlockSize + cs.blockLen
}

// update absorbs up to one chunk's worth of p, returning how much was
// taken. The final block of the chunk is held back for the CHUNK_END
// flag.
func (cs *chunkState) update(p []byte) int {
	var taken int
	for len(p) > 0 && cs.consumed() < ChunkSize {
		if cs.blockLen == BlockSize {
			block := wordsFromBlock(cs.block[:])
			cs.cv = firstEight(compress(cs.cv, block, cs.n, BlockSize, cs.flags|cs.startFlag()))
			cs.nCompressed++
			cs.blockLen = 0
		}
		n := copy(cs.block[cs.blockLen:], p)
		if rem := ChunkSize - cs.consumed(); n > rem {
			n = rem
		}
		cs.blockLen += n
		p = p[n:]
		taken += n
	}
	return taken
}

// output returns the chunk's final compression as a node, ready either
// for chaining or for root output.
func (cs *chunkState) output() node {
	var block [BlockSize]byte
	copy(block[:], cs.block[:cs.blockLen])
	return node{
		cv:       cs.cv,
		block:    wordsFromBlock(block[:]),
		counter:  cs.n,
		blockLen: uint32(cs.blockLen),
		flags:    cs.flags | cs.startFlag() | flagChunkEnd,
	}
}

// Hasher is the streaming state of a BLAKE3 computation. The chaining
// value stack holds one subtree root per set bit of the completed chunk
// count.
type Hasher struct {
	cs        chunkState
	key       [8]uint32
	flags     uint32
	stack     [54][8]uint32
	stackSize int
	size      int
}

func newHasher(key [8]uint32, flags uint32, size int) *Hasher {
	if size <= 0 {
		size = Size
	}
	return &Hasher{
		cs:    newChunkState(key, 0, flags),
		key:   key,
		flags: flags,
		size:  size,
	}
}

// New returns a Hasher producing size bytes of output. A 32-byte key
// selects the keyed mode; a nil key selects plain hashing.
func New(size int, key []byte) *Hasher {
	if key == nil {
		return newHasher(iv, 0, size)
	}
	var k [8]uint32
	for i := range k {
		k[i] = binary.LittleEndian.Uint32(key[i*4:])
	}
	return newHasher(k, flagKeyed, size)
}

// NewDeriveKey returns a Hasher in key-derivation mode for the given
// context string. The context should be hard-coded, globally unique and
// application-specific.
func NewDeriveKey(context string, size int) *Hasher {
	ctx := newHasher(iv, flagDeriveKeyContext, Size)
	_, _ = ctx.Write([]byte(context))
	var ctxKeyBytes [KeySize]byte
	ctx.finalSum(ctxKeyBytes[:])
	var ctxKey [8]uint32
	for i := range ctxKey {
		ctxKey[i] = binary.LittleEndian.Uint32(ctxKeyBytes[i*4:])
	}
	return newHasher(ctxKey, flagDeriveKeyMaterial, size)
}

func (h *Hasher) Size() int { return h.size }

func (h *Hasher) BlockSize() int { return BlockSize }

// Reset restores the initial state of the same mode and key.
func (h *Hasher) Reset() {
	h.cs = newChunkState(h.key, 0, h.flags)
	h.stackSize = 0
}

// pushChunk merges a completed chunk's chaining value into the stack.
// totalChunks is the number of completed chunks; each of its trailing
// zero bits corresponds to a completed subtree whose root is on the
// stack and must be merged.
func (h *Hasher) pushChunk(cv [8]uint32, totalChunks uint64) {
	for ; totalChunks&1 == 0; totalChunks >>= 1 {
		h.stackSize--
		cv = parentNode(h.stack[h.stackSize], cv, h.key, h.flags).chainingValue()
	}
	h.stack[h.stackSize] = cv
	h.stackSize++
}

// Write absorbs more data. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	nn := len(p)
	for len(p) > 0 {
		if h.cs.consumed() == ChunkSize {
			cv := h.cs.output().chainingValue()
			h.pushChunk(cv, h.cs.n+1)
			h.cs = newChunkState(h.key, h.cs.n+1, h.flags)
		}
		n := h.cs.update(p)
		p = p[n:]
	}
	return nn, nil
}

// rootNode collapses the stack into the single node whose output, with
// the ROOT flag, is the hash.
func (h *Hasher) rootNode() node {
	n := h.cs.output()
	for i := h.stackSize - 1; i >= 0; i-- {
		n = parentNode(h.stack[i], n.chainingValue(), h.key, h.flags)
	}
	return n
}

func (h *Hasher) finalSum(out []byte) {
	r := OutputReader{n: h.rootNode()}
	_, _ = r.Read(out)
}

// Sum appends the digest to in without disturbing the running state.
func (h *Hasher) Sum(in []byte) []byte {
	out := make([]byte, h.size)
	h.finalSum(out)
	return append(in, out...)
}

// XOF returns an unbounded output stream for the data absorbed so far.
// The Hasher may keep absorbing afterwards; the stream is a snapshot.
func (h *Hasher) XOF() *OutputReader {
	return &OutputReader{n: h.rootNode()}
}

// Sum256 returns the 32-byte BLAKE3 digest of data.
func Sum256(data []byte) [Size]byte {
	var out [Size]byte
	h := New(Size, nil)
	_, _ = h.Write(data)
	h.finalSum(out[:])
	return out
}

// Sum512 returns the 64-byte BLAKE3 digest of data.
func Sum512(data []byte) [64]byte {
	var out [64]byte
	h := New(64, nil)
	_, _ = h.Write(data)
	h.finalSum(out[:])
	return out
}

// DeriveKey derives a subKey from srcKey in the key-derivation mode
// bound to context.
func DeriveKey(subKey []byte, context string, srcKey []byte) {
	h := NewDeriveKey(context, len(subKey))
	_, _ = h.Write(srcKey)
	h.finalSum(subKey)
}

// OutputReader reads output blocks from a finalized root node. The
// stream is effectively unbounded (2^64 bytes) and seekable in constant
// time, since block i depends only on the root node and i.
type OutputReader struct {
	n     node
	block [BlockSize]byte
	off   uint64
	has   bool
	idx   uint64
}

func (r *OutputReader) genBlock(idx uint64) {
	words := compress(r.n.cv, r.n.block, idx, r.n.blockLen, r.n.flags|flagRoot)
	for i, w := range words {
		binary.LittleEndian.PutUint32(r.block[i*4:], w)
	}
	r.idx = idx
	r.has = true
}

// Read fills p with output stream bytes. It never fails; the stream does
// not end within any practical output length.
func (r *OutputReader) Read(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		idx := r.off / BlockSize
		if !r.has || r.idx != idx {
			r.genBlock(idx)
		}
		c := copy(p, r.block[r.off%BlockSize:])
		p = p[c:]
		r.off += uint64(c)
	}
	return n, nil
}

// Seek repositions the output stream. The stream has no end, so
// io.SeekEnd is not supported.
func (r *OutputReader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return 0, errors.New("blake3: negative seek position")
		}
		r.off = uint64(offset)
	case io.SeekCurrent:
		if offset < 0 && uint64(-offset) > r.off {
			return 0, errors.New("blake3: negative seek position")
		}
		r.off += uint64(offset)
	case io.SeekEnd:
		return 0, errors.New("blake3: seek from end of unbounded stream")
	default:
		return 0, errors.New("blake3: invalid whence")
	}
	return int64(r.off), nil
}
