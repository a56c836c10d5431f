package blake3

import (
	"encoding/binary"
	"math/bits"
)

const (
	flagChunkStart = 1 << iota
	flagChunkEnd
	flagParent
	flagRoot
	flagKeyed
	flagDeriveKeyContext
	flagDeriveKeyMaterial
)

var iv = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

// The fixed message permutation applied between rounds.
var msgPermutation = [16]int{2, 6, 3, 10, 7, 0, 4, 13, 1, 11, 12, 5, 9, 14, 15, 8}

func g(a, b, c, d, mx, my uint32) (uint32, uint32, uint32, uint32) {
	a += b + mx
	d = bits.RotateLeft32(d^a, -16)
	c += d
	b = bits.RotateLeft32(b^c, -12)
	a += b + my
	d = bits.RotateLeft32(d^a, -8)
	c += d
	b = bits.RotateLeft32(b^c, -7)
	return a, b, c, d
}

func round(v *[16]uint32, m *[16]uint32) {
	// Columns.
	v[0], v[4], v[8], v[12] = g(v[0], v[4], v[8], v[12], m[0], m[1])
	v[1], v[5], v[9], v[13] = g(v[1], v[5], v[9], v[13], m[2], m[3])
	v[2], v[6], v[10], v[14] = g(v[2], v[6], v[10], v[14], m[4], m[5])
	v[3], v[7], v[11], v[15] = g(v[3], v[7], v[11], v[15], m[6], m[7])
	// Diagonals.
	v[0], v[5], v[10], v[15] = g(v[0], v[5], v[10], v[15], m[8], m[9])
	v[1], v[6], v[11], v[12] = g(v[1], v[6], v[11], v[12], m[10], m[11])
	v[2], v[7], v[8], v[13] = g(v[2], v[7], v[8], v[13], m[12], m[13])
	v[3], v[4], v[9], v[14] = g(v[3], v[4], v[9], v[14], m[14], m[15])
}

func permute(m *[16]uint32) {
	var p [16]uint32
	for i, j := range msgPermutation {
		p[i] = m[j]
	}
	*m = p
}

// compress runs the seven-round BLAKE3 compression function and returns
// the full 16-word output state. The caller picks the first eight words
// for chaining values or all sixteen for extended output.
func compress(cv [8]uint32, block [16]uint32, counter uint64, blockLen uint32, flags uint32) [16]uint32 {
	v := [16]uint32{
		cv[0], cv[1], cv[2], cv[3],
		cv[4], cv[5], cv[6], cv[7],
		iv[0], iv[1], iv[2], iv[3],
		uint32(counter), uint32(counter >> 32), blockLen, flags,
	}
	m := block
	for r := 0; r < 7; r++ {
		round(&v, &m)
		if r < 6 {
			permute(&m)
		}
	}
	for i := 0; i < 8; i++ {
		v[i] ^= v[i+8]
		v[i+8] ^= cv[i]
	}
	return v
}

func firstEight(v [16]uint32) (cv [8]uint32) {
	copy(cv[:], v[:8])
	return
}

func wordsFromBlock(block []byte) (m [16]uint32) {
	for i := range m {
		m[i] = binary.LittleEndian.Uint32(block[i*4:])
	}
	return
}
