// Package sha1 implements the SHA-1 hash function as defined in FIPS 180-4.
//
// SHA-1 is cryptographically broken and provided for interoperability only.
package sha1

import (
	"encoding/binary"
	"math/bits"
)

// BlockSize is the block size of SHA-1 in bytes.
const BlockSize = 64

// Size is the size of a SHA-1 checksum in bytes.
const Size = 20

const (
	k0 = 0x5A827999
	k1 = 0x6ED9EBA1
	k2 = 0x8F1BBCDC
	k3 = 0xCA62C1D6
)

var iv = [5]uint32{0x67452301, 0xEFCDAB89, 0x98BADCFE, 0x10325476, 0xC3D2E1F0}

// Digest is the streaming state of a SHA-1 computation.
type Digest struct {
	h  [5]uint32
	t  uint64
	x  [BlockSize]byte
	nx int
}

// New returns a new Digest ready for use.
func New() *Digest {
	d := new(Digest)
	d.Reset()
	return d
}

func (d *Digest) Reset() {
	d.h = iv
	d.t = 0
	d.nx = 0
}

func (d *Digest) Size() int { return Size }

func (d *Digest) BlockSize() int { return BlockSize }

func (d *Digest) Write(p []byte) (nn int, err error) {
	nn = len(p)
	d.t += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			block(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		block(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return
}

// Sum appends the current checksum to in without disturbing the running
// state.
func (d *Digest) Sum(in []byte) []byte {
	sum := d.checkSum()
	return append(in, sum[:]...)
}

func (d *Digest) checkSum() [Size]byte {
	dd := *d
	var pad [BlockSize * 2]byte
	pad[0] = 0x80
	r := int(dd.t % BlockSize)
	n := 55 - r
	if r > 55 {
		n += BlockSize
	}
	binary.BigEndian.PutUint64(pad[n+1:], dd.t<<3)
	_, _ = dd.Write(pad[:n+9])

	var out [Size]byte
	for i, s := range dd.h {
		binary.BigEndian.PutUint32(out[i*4:], s)
	}
	return out
}

// Sum20 returns the SHA-1 checksum of data.
func Sum20(data []byte) [Size]byte {
	var d Digest
	d.Reset()
	_, _ = d.Write(data)
	return d.checkSum()
}

func block(h *[5]uint32, p []byte) {
	h0, h1, h2, h3, h4 := h[0], h[1], h[2], h[3], h[4]
	for len(p) >= BlockSize {
		var w [80]uint32
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[i*4:])
		}
		for i := 16; i < 80; i++ {
			w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
		}

		a, b, c, d, e := h0, h1, h2, h3, h4
		for i := 0; i < 80; i++ {
			var f, k uint32
			switch {
			case i < 20:
				f = (b & c) | (^b & d) // choice
				k = k0
			case i < 40:
				f = b ^ c ^ d // parity
				k = k1
			case i < 60:
				f = (b & c) | (b & d) | (c & d) // majority
				k = k2
			default:
				f = b ^ c ^ d
				k = k3
			}
			a, b, c, d, e = bits.RotateLeft32(a, 5)+f+e+k+w[i], a, bits.RotateLeft32(b, 30), c, d
		}
		h0 += a
		h1 += b
		h2 += c
		h3 += d
		h4 += e

		p = p[BlockSize:]
	}
	h[0], h[1], h[2], h[3], h[4] = h0, h1, h2, h3, h4
}
