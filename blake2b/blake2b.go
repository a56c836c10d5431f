// Package blake2b implements the BLAKE2b hash function per RFC 7693,
// including keyed hashing, salting, personalization and the tree-hashing
// parameters, plus the BLAKE2Xb extendable-output and BLAKE2bp parallel
// constructions layered on top.
package blake2b

import (
	"encoding/binary"
	"errors"

	"lukechampine.com/uint128"
)

const (
	// BlockSize is the block size of BLAKE2b in bytes.
	BlockSize = 128
	// Size is the default and maximum digest size in bytes.
	Size = 64
	// KeySize is the maximum key size in bytes.
	KeySize = 64
	// SaltSize is the exact salt size in bytes.
	SaltSize = 16
	// PersonalSize is the exact personalization size in bytes.
	PersonalSize = 16
)

var iv = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

var (
	errDigestSize = errors.New("blake2b: invalid digest size")
	errKeySize    = errors.New("blake2b: key too long")
	errSaltSize   = errors.New("blake2b: salt too long")
	errPersonSize = errors.New("blake2b: personalization too long")
)

// Tree carries the tree-hashing fields of the parameter block. The zero
// value is not valid; sequential mode uses fanout=1, depth=1.
type Tree struct {
	Fanout     uint8
	MaxDepth   uint8
	LeafSize   uint32
	NodeOffset uint64
	NodeDepth  uint8
	InnerSize  uint8
	IsLastNode bool
}

// Config collects every recognized parameter. Size 0 selects the default
// 64-byte digest. A nil Tree selects sequential mode.
type Config struct {
	Size     int
	Key      []byte
	Salt     []byte
	Personal []byte
	Tree     *Tree
}

// Digest is the streaming state of a BLAKE2b computation. The byte
// counter is 128-bit wide per the specification.
type Digest struct {
	h        [8]uint64
	t        uint128.Uint128
	x        [BlockSize]byte
	nx       int
	size     int
	lastNode bool

	// initial state and key block, kept for Reset
	ih     [8]uint64
	keyLen int
	key    [BlockSize]byte
}

// New returns a sequential-mode Digest of the given size. A non-empty
// key turns the hash into a MAC.
func New(size int, key []byte) (*Digest, error) {
	return NewConfig(&Config{Size: size, Key: key})
}

// New512 returns an unkeyed 64-byte Digest.
func New512() *Digest {
	d, _ := New(Size, nil)
	return d
}

// NewConfig returns a Digest for an arbitrary parameter block.
func NewConfig(c *Config) (*Digest, error) {
	size := c.Size
	if size == 0 {
		size = Size
	}
	if size < 1 || size > Size {
		return nil, errDigestSize
	}
	if len(c.Key) > KeySize {
		return nil, errKeySize
	}
	if len(c.Salt) > SaltSize {
		return nil, errSaltSize
	}
	if len(c.Personal) > PersonalSize {
		return nil, errPersonSize
	}

	var p [64]byte
	p[0] = byte(size)
	p[1] = byte(len(c.Key))
	if c.Tree != nil {
		p[2] = c.Tree.Fanout
		p[3] = c.Tree.MaxDepth
		binary.LittleEndian.PutUint32(p[4:], c.Tree.LeafSize)
		binary.LittleEndian.PutUint64(p[8:], c.Tree.NodeOffset)
		p[16] = c.Tree.NodeDepth
		p[17] = c.Tree.InnerSize
	} else {
		p[2] = 1
		p[3] = 1
	}
	copy(p[32:48], c.Salt)
	copy(p[48:64], c.Personal)

	d := &Digest{size: size}
	if c.Tree != nil {
		d.lastNode = c.Tree.IsLastNode
	}
	for i := range d.h {
		d.ih[i] = iv[i] ^ binary.LittleEndian.Uint64(p[i*8:])
	}
	d.keyLen = len(c.Key)
	copy(d.key[:], c.Key)
	d.Reset()
	return d, nil
}

// Reset restores the initial state, re-absorbing the key block if the
// digest is keyed.
func (d *Digest) Reset() {
	d.h = d.ih
	d.t = uint128.Zero
	d.nx = 0
	if d.keyLen > 0 {
		d.nx = copy(d.x[:], d.key[:])
	}
}

func (d *Digest) Size() int { return d.size }

func (d *Digest) BlockSize() int { return BlockSize }

// Write absorbs more data. A full buffered block is only compressed once
// further input arrives: the final block must be held back for the
// last-block flag.
func (d *Digest) Write(p []byte) (nn int, err error) {
	nn = len(p)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		p = p[n:]
		if len(p) == 0 {
			return
		}
		d.compress(d.x[:], BlockSize)
		d.nx = 0
	}
	if len(p) > BlockSize {
		n := (len(p) - 1) &^ (BlockSize - 1)
		for off := 0; off < n; off += BlockSize {
			d.compress(p[off:off+BlockSize], BlockSize)
		}
		p = p[n:]
	}
	d.nx = copy(d.x[:], p)
	return
}

func (d *Digest) compress(block []byte, inc uint64) {
	d.t = d.t.Add64(inc)
	compressBlock(&d.h, block, d.t, 0, 0)
}

// finalize simulates the last compression without disturbing the running
// state and writes the digest prefix into out.
func (d *Digest) finalize(out []byte) {
	h := d.h
	t := d.t.Add64(uint64(d.nx))
	var block [BlockSize]byte
	copy(block[:], d.x[:d.nx])

	var f1 uint64
	if d.lastNode {
		f1 = ^uint64(0)
	}
	compressBlock(&h, block[:], t, ^uint64(0), f1)

	var sum [Size]byte
	for i, s := range h {
		binary.LittleEndian.PutUint64(sum[i*8:], s)
	}
	copy(out, sum[:])
}

// Sum appends the digest to in without disturbing the running state.
func (d *Digest) Sum(in []byte) []byte {
	out := make([]byte, d.size)
	d.finalize(out)
	return append(in, out...)
}

// Sum512 returns the unkeyed 64-byte BLAKE2b digest of data.
func Sum512(data []byte) [Size]byte {
	d := New512()
	_, _ = d.Write(data)
	var out [Size]byte
	d.finalize(out[:])
	return out
}
