package sha2

import (
	"encoding/binary"

	"lukechampine.com/uint128"
)

// Block and digest sizes of the 64-bit family, in bytes.
const (
	BlockSize512 = 128
	Size384      = 48
	Size512      = 64
	Size512_224  = 28
	Size512_256  = 32
)

var iv384 = [8]uint64{
	0xcbbb9d5dc1059ed8, 0x629a292a367cd507, 0x9159015a3070dd17, 0x152fecd8f70e5939,
	0x67332667ffc00b31, 0x8eb44a8768581511, 0xdb0c2e0d64f98fa7, 0x47b5481dbefa4fa4,
}

var iv512 = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

var iv512_224 = [8]uint64{
	0x8c3d37c819544da2, 0x73e1996689dcd4d6, 0x1dfab7ae32ff9c82, 0x679dd514582f9fcf,
	0x0f6d2b697bd44da8, 0x77e36f7304c48942, 0x3f9d85a86a1d36c8, 0x1112e6ad91d692a1,
}

var iv512_256 = [8]uint64{
	0x22312194fc2bf72c, 0x9f555fa3c84c64c2, 0x2393b86b6f53b151, 0x963877195940eabd,
	0x96283ee2a88effe3, 0xbe5e1e2553863992, 0x2b0199fc2c85b8aa, 0x0eb72ddc81c52ca2,
}

// Digest512 is the streaming state of a SHA-384, SHA-512, SHA-512/224 or
// SHA-512/256 computation. The byte counter is 128-bit wide as required
// by the padding scheme for inputs beyond 2^64 bits.
type Digest512 struct {
	h    [8]uint64
	t    uint128.Uint128
	x    [BlockSize512]byte
	nx   int
	size int
}

// New512 returns a Digest512 computing SHA-512.
func New512() *Digest512 {
	d := &Digest512{size: Size512}
	d.Reset()
	return d
}

// New384 returns a Digest512 computing SHA-384.
func New384() *Digest512 {
	d := &Digest512{size: Size384}
	d.Reset()
	return d
}

// New512_224 returns a Digest512 computing SHA-512/224.
func New512_224() *Digest512 {
	d := &Digest512{size: Size512_224}
	d.Reset()
	return d
}

// New512_256 returns a Digest512 computing SHA-512/256.
func New512_256() *Digest512 {
	d := &Digest512{size: Size512_256}
	d.Reset()
	return d
}

func (d *Digest512) Reset() {
	switch d.size {
	case Size384:
		d.h = iv384
	case Size512_224:
		d.h = iv512_224
	case Size512_256:
		d.h = iv512_256
	default:
		d.h = iv512
	}
	d.t = uint128.Zero
	d.nx = 0
}

func (d *Digest512) Size() int { return d.size }

func (d *Digest512) BlockSize() int { return BlockSize512 }

func (d *Digest512) Write(p []byte) (nn int, err error) {
	nn = len(p)
	d.t = d.t.Add64(uint64(nn))
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize512 {
			block512(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize512 {
		n := len(p) &^ (BlockSize512 - 1)
		block512(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return
}

// Sum appends the current checksum to in without disturbing the running
// state.
func (d *Digest512) Sum(in []byte) []byte {
	sum := d.checkSum()
	return append(in, sum[:d.size]...)
}

func (d *Digest512) checkSum() [Size512]byte {
	dd := *d
	var pad [BlockSize512 * 2]byte
	pad[0] = 0x80
	r := int(dd.t.Mod64(BlockSize512))
	n := 111 - r
	if r > 111 {
		n += BlockSize512
	}
	// 128-bit big-endian bit length.
	l := dd.t.Lsh(3)
	binary.BigEndian.PutUint64(pad[n+1:], l.Hi)
	binary.BigEndian.PutUint64(pad[n+9:], l.Lo)
	_, _ = dd.Write(pad[:n+17])

	var out [Size512]byte
	for i, s := range dd.h {
		binary.BigEndian.PutUint64(out[i*8:], s)
	}
	return out
}

// Sum512 returns the SHA-512 checksum of data.
func Sum512(data []byte) [Size512]byte {
	d := Digest512{size: Size512, h: iv512}
	_, _ = d.Write(data)
	return d.checkSum()
}

// Sum384 returns the SHA-384 checksum of data.
func Sum384(data []byte) [Size384]byte {
	d := Digest512{size: Size384, h: iv384}
	_, _ = d.Write(data)
	sum := d.checkSum()
	var out [Size384]byte
	copy(out[:], sum[:])
	return out
}
