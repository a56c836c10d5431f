// Package sha3 implements the SHA-3 fixed-output hash functions and the
// SHAKE extendable-output functions from FIPS 202, built on the
// Keccak-f[1600] sponge.
package sha3

import (
	"encoding/binary"
)

// Domain separation bytes. The suffix bits are OR'd with the first bit
// of the pad10*1 padding.
const (
	dsbyteSHA3  = 0x06
	dsbyteShake = 0x1f
)

// maxRate is the rate of SHAKE128, the widest sponge in the package.
const maxRate = 168

// Digest is a Keccak sponge absorbing input at a fixed rate and
// squeezing output after padding. It backs both the fixed-output SHA-3
// functions and SHAKE.
type Digest struct {
	a         [25]uint64    // sponge state
	buf       [maxRate]byte // pending input, strictly less than one rate block
	n         int           // bytes buffered
	rate      int           // bytes absorbed/squeezed per permutation
	dsbyte    byte          // domain separation suffix
	size      int           // output size in bytes; 0 for SHAKE
	squeezing bool          // input closed, output being produced
	off       int           // squeeze offset inside the current block
}

// New224 returns a Digest computing SHA3-224.
func New224() *Digest { return &Digest{rate: 144, size: 28, dsbyte: dsbyteSHA3} }

// New256 returns a Digest computing SHA3-256.
func New256() *Digest { return &Digest{rate: 136, size: 32, dsbyte: dsbyteSHA3} }

// New384 returns a Digest computing SHA3-384.
func New384() *Digest { return &Digest{rate: 104, size: 48, dsbyte: dsbyteSHA3} }

// New512 returns a Digest computing SHA3-512.
func New512() *Digest { return &Digest{rate: 72, size: 64, dsbyte: dsbyteSHA3} }

// NewShake128 returns a Digest computing arbitrary-length SHAKE128 output.
func NewShake128() *Digest { return &Digest{rate: 168, dsbyte: dsbyteShake} }

// NewShake256 returns a Digest computing arbitrary-length SHAKE256 output.
func NewShake256() *Digest { return &Digest{rate: 136, dsbyte: dsbyteShake} }

// Reset clears the sponge for reuse.
func (d *Digest) Reset() {
	d.a = [25]uint64{}
	d.n = 0
	d.squeezing = false
	d.off = 0
}

// Size returns the fixed output size, or 32/64 for SHAKE128/SHAKE256 to
// satisfy hash.Hash.
func (d *Digest) Size() int {
	if d.size != 0 {
		return d.size
	}
	if d.rate == 168 {
		return 32
	}
	return 64
}

// BlockSize returns the sponge rate.
func (d *Digest) BlockSize() int { return d.rate }

// Clone returns an independent copy of the sponge state.
func (d *Digest) Clone() *Digest {
	dd := *d
	return &dd
}

func (d *Digest) absorb() {
	for i := 0; i < d.rate/8; i++ {
		d.a[i] ^= binary.LittleEndian.Uint64(d.buf[i*8:])
	}
	keccakF1600(&d.a)
	d.n = 0
}

// Write absorbs more input into the sponge. It panics if called after
// output has been squeezed; callers hold the finalized flag one level up.
func (d *Digest) Write(p []byte) (nn int, err error) {
	if d.squeezing {
		panic("sha3: Write after Read")
	}
	nn = len(p)
	for len(p) > 0 {
		n := copy(d.buf[d.n:d.rate], p)
		d.n += n
		p = p[n:]
		if d.n == d.rate {
			d.absorb()
		}
	}
	return
}

// padAndPermute closes the input with the multi-rate padding: the domain
// suffix into the first free byte, 0x80 into the last byte of the block.
func (d *Digest) padAndPermute() {
	for i := d.n; i < d.rate; i++ {
		d.buf[i] = 0
	}
	d.buf[d.n] = d.dsbyte
	d.buf[d.rate-1] |= 0x80
	d.n = d.rate
	d.absorb()
	d.squeezing = true
	d.off = 0
}

// Read squeezes output from the sponge, closing input on first use.
func (d *Digest) Read(p []byte) (nn int, err error) {
	if !d.squeezing {
		d.padAndPermute()
	}
	nn = len(p)
	for len(p) > 0 {
		if d.off == d.rate {
			keccakF1600(&d.a)
			d.off = 0
		}
		n := d.copyOut(p)
		d.off += n
		p = p[n:]
	}
	return
}

func (d *Digest) copyOut(p []byte) int {
	avail := d.rate - d.off
	if len(p) > avail {
		p = p[:avail]
	}
	for i := range p {
		off := d.off + i
		p[i] = byte(d.a[off/8] >> (8 * (off % 8)))
	}
	return len(p)
}

// Sum appends the digest to in without disturbing the absorbing state.
func (d *Digest) Sum(in []byte) []byte {
	dd := d.Clone()
	out := make([]byte, dd.Size())
	_, _ = dd.Read(out)
	return append(in, out...)
}

// Sum256 returns the SHA3-256 checksum of data.
func Sum256(data []byte) [32]byte {
	d := New256()
	_, _ = d.Write(data)
	var out [32]byte
	_, _ = d.Read(out[:])
	return out
}

// SumShake128 writes n bytes of SHAKE128 output for data into a fresh
// slice.
func SumShake128(data []byte, n int) []byte {
	d := NewShake128()
	_, _ = d.Write(data)
	out := make([]byte, n)
	_, _ = d.Read(out)
	return out
}

// SumShake256 writes n bytes of SHAKE256 output for data into a fresh
// slice.
func SumShake256(data []byte, n int) []byte {
	d := NewShake256()
	_, _ = d.Write(data)
	out := make([]byte, n)
	_, _ = d.Read(out)
	return out
}
