// Package md5 implements the MD5 hash function as defined in RFC 1321.
//
// MD5 is cryptographically broken and provided for interoperability only.
package md5

import (
	"encoding/binary"
	"math/bits"
)

// BlockSize is the block size of MD5 in bytes.
const BlockSize = 64

// Size is the size of an MD5 checksum in bytes.
const Size = 16

var iv = [4]uint32{0x67452301, 0xEFCDAB89, 0x98BADCFE, 0x10325476}

// Sine-derived round constants from RFC 1321, hard-coded rather than
// recomputed from floating point at startup.
var tab = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

// Digest is the streaming state of an MD5 computation.
type Digest struct {
	h  [4]uint32
	t  uint64          // total bytes written
	x  [BlockSize]byte // buffer for data not yet compressed
	nx int             // number of bytes in buffer
}

// New returns a new Digest ready for use.
func New() *Digest {
	d := new(Digest)
	d.Reset()
	return d
}

// Reset restores the initial state.
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
	// Padding: 0x80, zeros, then the little-endian 64-bit bit count.
	dd := *d
	var pad [BlockSize * 2]byte
	pad[0] = 0x80
	r := int(dd.t % BlockSize)
	n := 55 - r
	if r > 55 {
		n += BlockSize
	}
	binary.LittleEndian.PutUint64(pad[n+1:], dd.t<<3)
	_, _ = dd.Write(pad[:n+9])

	var out [Size]byte
	for i, s := range dd.h {
		binary.LittleEndian.PutUint32(out[i*4:], s)
	}
	return out
}

// Sum16 returns the MD5 checksum of data.
func Sum16(data []byte) [Size]byte {
	var d Digest
	d.Reset()
	_, _ = d.Write(data)
	return d.checkSum()
}

func block(h *[4]uint32, p []byte) {
	a0, b0, c0, d0 := h[0], h[1], h[2], h[3]
	for len(p) >= BlockSize {
		var m [16]uint32
		for i := range m {
			m[i] = binary.LittleEndian.Uint32(p[i*4:])
		}

		a, b, c, d := a0, b0, c0, d0
		for i := 0; i < 64; i++ {
			var f uint32
			var g int
			switch {
			case i < 16:
				f = d ^ (b & (c ^ d))
				g = i
			case i < 32:
				f = c ^ (d & (b ^ c))
				g = (5*i + 1) & 15
			case i < 48:
				f = b ^ c ^ d
				g = (3*i + 5) & 15
			default:
				f = c ^ (b | ^d)
				g = (7 * i) & 15
			}
			a, d, c, b = d, c, b, b+bits.RotateLeft32(a+f+tab[i]+m[g], shift[i])
		}
		a0 += a
		b0 += b
		c0 += c
		d0 += d

		p = p[BlockSize:]
	}
	h[0], h[1], h[2], h[3] = a0, b0, c0, d0
}

var shift = [64]int{
	7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22,
	5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20,
	4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23,
	6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21,
}
