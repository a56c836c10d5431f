// Package blake2s implements the BLAKE2s hash function per RFC 7693,
// including keyed hashing, salting, personalization and the tree-hashing
// parameters, plus the BLAKE2Xs extendable-output and BLAKE2sp parallel
// constructions layered on top.
package blake2s

import (
	"encoding/binary"
	"errors"
)

const (
	// BlockSize is the block size of BLAKE2s in bytes.
	BlockSize = 64
	// Size is the default and maximum digest size in bytes.
	Size = 32
	// KeySize is the maximum key size in bytes.
	KeySize = 32
	// SaltSize is the exact salt size in bytes.
	SaltSize = 8
	// PersonalSize is the exact personalization size in bytes.
	PersonalSize = 8
)

var iv = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

var (
	errDigestSize = errors.New("blake2s: invalid digest size")
	errKeySize    = errors.New("blake2s: key too long")
	errSaltSize   = errors.New("blake2s: salt too long")
	errPersonSize = errors.New("blake2s: personalization too long")
)

// Tree carries the tree-hashing fields of the parameter block. Node
// offsets are 48-bit in BLAKE2s.
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
// 32-byte digest. A nil Tree selects sequential mode.
type Config struct {
	Size     int
	Key      []byte
	Salt     []byte
	Personal []byte
	Tree     *Tree
}

// Digest is the streaming state of a BLAKE2s computation.
type Digest struct {
	h        [8]uint32
	t        uint64
	x        [BlockSize]byte
	nx       int
	size     int
	lastNode bool

	ih     [8]uint32
	keyLen int
	key    [BlockSize]byte
}

// New returns a sequential-mode Digest of the given size. A non-empty
// key turns the hash into a MAC.
func New(size int, key []byte) (*Digest, error) {
	return NewConfig(&Config{Size: size, Key: key})
}

// New256 returns an unkeyed 32-byte Digest.
func New256() *Digest {
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

	var p [32]byte
	p[0] = byte(size)
	p[1] = byte(len(c.Key))
	if c.Tree != nil {
		p[2] = c.Tree.Fanout
		p[3] = c.Tree.MaxDepth
		binary.LittleEndian.PutUint32(p[4:], c.Tree.LeafSize)
		binary.LittleEndian.PutUint32(p[8:], uint32(c.Tree.NodeOffset))
		binary.LittleEndian.PutUint16(p[12:], uint16(c.Tree.NodeOffset>>32))
		p[14] = c.Tree.NodeDepth
		p[15] = c.Tree.InnerSize
	} else {
		p[2] = 1
		p[3] = 1
	}
	copy(p[16:24], c.Salt)
	copy(p[24:32], c.Personal)

	d := &Digest{size: size}
	if c.Tree != nil {
		d.lastNode = c.Tree.IsLastNode
	}
	for i := range d.h {
		d.ih[i] = iv[i] ^ binary.LittleEndian.Uint32(p[i*4:])
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
	d.t = 0
	d.nx = 0
	if d.keyLen > 0 {
		d.nx = copy(d.x[:], d.key[:])
	}
}

func (d *Digest) Size() int { return d.size }

func (d *Digest) BlockSize() int { return BlockSize }

// Write absorbs more data, holding back the final block for the
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
		d.t += BlockSize
		compressBlock(&d.h, d.x[:], d.t, 0, 0)
		d.nx = 0
	}
	if len(p) > BlockSize {
		n := (len(p) - 1) &^ (BlockSize - 1)
		for off := 0; off < n; off += BlockSize {
			d.t += BlockSize
			compressBlock(&d.h, p[off:off+BlockSize], d.t, 0, 0)
		}
		p = p[n:]
	}
	d.nx = copy(d.x[:], p)
	return
}

// finalize simulates the last compression without disturbing the running
// state and writes the digest prefix into out.
func (d *Digest) finalize(out []byte) {
	h := d.h
	t := d.t + uint64(d.nx)
	var block [BlockSize]byte
	copy(block[:], d.x[:d.nx])

	var f1 uint32
	if d.lastNode {
		f1 = ^uint32(0)
	}
	compressBlock(&h, block[:], t, ^uint32(0), f1)

	var sum [Size]byte
	for i, s := range h {
		binary.LittleEndian.PutUint32(sum[i*4:], s)
	}
	copy(out, sum[:])
}

// Sum appends the digest to in without disturbing the running state.
func (d *Digest) Sum(in []byte) []byte {
	out := make([]byte, d.size)
	d.finalize(out)
	return append(in, out...)
}

// Sum256 returns the unkeyed 32-byte BLAKE2s digest of data.
func Sum256(data []byte) [Size]byte {
	d := New256()
	_, _ = d.Write(data)
	var out [Size]byte
	d.finalize(out[:])
	return out
}
