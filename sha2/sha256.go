// Package sha2 implements the SHA-2 family of hash functions from
// FIPS 180-4: SHA-224, SHA-256, SHA-384, SHA-512 and the truncated
// SHA-512/224 and SHA-512/256 variants.
package sha2

import (
	"encoding/binary"
)

// Block and digest sizes of the 32-bit family, in bytes.
const (
	BlockSize256 = 64
	Size224      = 28
	Size256      = 32
)

var iv224 = [8]uint32{
	0xC1059ED8, 0x367CD507, 0x3070DD17, 0xF70E5939,
	0xFFC00B31, 0x68581511, 0x64F98FA7, 0xBEFA4FA4,
}

var iv256 = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

// Digest256 is the streaming state of a SHA-224 or SHA-256 computation.
type Digest256 struct {
	h    [8]uint32
	t    uint64
	x    [BlockSize256]byte
	nx   int
	size int // output size in bytes: Size224 or Size256
}

// New256 returns a Digest256 computing SHA-256.
func New256() *Digest256 {
	d := &Digest256{size: Size256}
	d.Reset()
	return d
}

// New224 returns a Digest256 computing SHA-224.
func New224() *Digest256 {
	d := &Digest256{size: Size224}
	d.Reset()
	return d
}

func (d *Digest256) Reset() {
	if d.size == Size224 {
		d.h = iv224
	} else {
		d.h = iv256
	}
	d.t = 0
	d.nx = 0
}

func (d *Digest256) Size() int { return d.size }

func (d *Digest256) BlockSize() int { return BlockSize256 }

func (d *Digest256) Write(p []byte) (nn int, err error) {
	nn = len(p)
	d.t += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize256 {
			block256(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize256 {
		n := len(p) &^ (BlockSize256 - 1)
		block256(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return
}

// Sum appends the current checksum to in without disturbing the running
// state.
func (d *Digest256) Sum(in []byte) []byte {
	sum := d.checkSum()
	return append(in, sum[:d.size]...)
}

func (d *Digest256) checkSum() [Size256]byte {
	dd := *d
	var pad [BlockSize256 * 2]byte
	pad[0] = 0x80
	r := int(dd.t % BlockSize256)
	n := 55 - r
	if r > 55 {
		n += BlockSize256
	}
	binary.BigEndian.PutUint64(pad[n+1:], dd.t<<3)
	_, _ = dd.Write(pad[:n+9])

	var out [Size256]byte
	for i, s := range dd.h {
		binary.BigEndian.PutUint32(out[i*4:], s)
	}
	return out
}

// Sum256 returns the SHA-256 checksum of data.
func Sum256(data []byte) [Size256]byte {
	d := Digest256{size: Size256, h: iv256}
	_, _ = d.Write(data)
	return d.checkSum()
}

// Sum224 returns the SHA-224 checksum of data.
func Sum224(data []byte) [Size224]byte {
	d := Digest256{size: Size224, h: iv224}
	_, _ = d.Write(data)
	sum := d.checkSum()
	var out [Size224]byte
	copy(out[:], sum[:])
	return out
}
