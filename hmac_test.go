package digest

import (
	cryptohmac "crypto/hmac"
	cryptomd5 "crypto/md5"
	"crypto/rand"
	cryptosha1 "crypto/sha1"
	cryptosha256 "crypto/sha256"
	cryptosha512 "crypto/sha512"
	"hash"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashforge/digest/encode"
)

// RFC 2202 and RFC 4231, the "Jefe" test case.
func TestHMACVectors(t *testing.T) {
	key := []byte("Jefe")
	msg := []byte("what do ya want for nothing?")

	cases := []struct {
		alg Algorithm
		hex string
	}{
		{MD5, "750c783e6ab0b503eaa86e310a5db738"},
		{SHA1, "effcdf6ae5eb2fa2d27416d5f184df9c259a7c79"},
		{SHA256, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"},
		{SHA512, "164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea2505549758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737"},
	}
	for _, tc := range cases {
		t.Run(tc.alg.String(), func(t *testing.T) {
			mac, err := HMAC(tc.alg, key, msg)
			require.NoError(t, err)
			assert.Equal(t, tc.hex, encode.ToHex(mac))
		})
	}
}

func TestHMACAgainstStdlib(t *testing.T) {
	oracles := []struct {
		alg Algorithm
		fn  func() hash.Hash
	}{
		{MD5, cryptomd5.New},
		{SHA1, cryptosha1.New},
		{SHA224, cryptosha256.New224},
		{SHA256, cryptosha256.New},
		{SHA384, cryptosha512.New384},
		{SHA512, cryptosha512.New},
	}
	msg := make([]byte, 1000)
	_, _ = rand.Read(msg)

	for _, o := range oracles {
		o := o
		t.Run(o.alg.String(), func(t *testing.T) {
			// Short, block-sized and over-long keys.
			for _, keyLen := range []int{1, 20, 64, 128, 200} {
				key := msg[:keyLen]
				got, err := HMAC(o.alg, key, msg)
				require.NoError(t, err)

				ref := cryptohmac.New(o.fn, key)
				_, _ = ref.Write(msg)
				assert.Equal(t, ref.Sum(nil), got, "key length %d", keyLen)
			}
		})
	}
}

func TestHMACRejectsXOFAndTree(t *testing.T) {
	for _, alg := range []Algorithm{SHAKE128, SHAKE256, BLAKE2Xb, BLAKE2Xs, BLAKE2bp, BLAKE2sp, BLAKE3} {
		_, err := HMAC(alg, []byte("key"), []byte("msg"))
		assert.ErrorIs(t, err, ErrUnsupported, "%s", alg)
	}
	_, err := HMAC(Algorithm(999), []byte("key"), []byte("msg"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

// Flipping a single bit of the key or the message should flip roughly
// half the output bits. Only a loose band is asserted.
func TestHMACAvalanche(t *testing.T) {
	key := make([]byte, 32)
	msg := make([]byte, 64)
	_, _ = rand.Read(key)
	_, _ = rand.Read(msg)

	base, err := HMAC(SHA256, key, msg)
	require.NoError(t, err)

	flip := func(buf []byte, bit int) {
		buf[bit/8] ^= 1 << (bit % 8)
	}
	distance := func(a, b []byte) int {
		var d int
		for i := range a {
			d += bits.OnesCount8(a[i] ^ b[i])
		}
		return d
	}

	total := 0
	trials := 0
	for bit := 0; bit < 64; bit += 7 {
		flip(msg, bit)
		mac, err := HMAC(SHA256, key, msg)
		require.NoError(t, err)
		flip(msg, bit)

		d := distance(base, mac)
		assert.Positive(t, d, "message bit %d changed nothing", bit)
		total += d
		trials++

		flip(key, bit%256)
		mac, err = HMAC(SHA256, key, msg)
		require.NoError(t, err)
		flip(key, bit%256)

		d = distance(base, mac)
		assert.Positive(t, d, "key bit %d changed nothing", bit)
		total += d
		trials++
	}

	mean := float64(total) / float64(trials)
	assert.Greater(t, mean, 96.0, "mean flipped bits out of 256")
	assert.Less(t, mean, 160.0, "mean flipped bits out of 256")
}
