package digest

import (
	"crypto/rand"
	"io"
	mrand "math/rand"
	"os"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashforge/digest/encode"
)

type vectorFile struct {
	Vectors []struct {
		Algorithm string `json:"algorithm"`
		Input     string `json:"input"`
		Hex       string `json:"hex"`
	} `json:"vectors"`
}

func TestKnownAnswerVectors(t *testing.T) {
	raw, err := os.ReadFile("testdata/vectors.json")
	require.NoError(t, err)
	var f vectorFile
	require.NoError(t, json.Unmarshal(raw, &f))
	require.NotEmpty(t, f.Vectors)

	for _, v := range f.Vectors {
		v := v
		t.Run(v.Algorithm+"/"+v.Input, func(t *testing.T) {
			alg, err := ParseAlgorithm(v.Algorithm)
			require.NoError(t, err)
			sum, err := Sum(alg, []byte(v.Input))
			require.NoError(t, err)
			assert.Equal(t, v.Hex, encode.ToHex(sum))
		})
	}
}

func TestRegistry(t *testing.T) {
	algs := Supported()
	require.Len(t, algs, 21)
	for _, alg := range algs {
		assert.Positive(t, alg.Size(), "%s size", alg)
		assert.Positive(t, alg.BlockSize(), "%s block size", alg)

		parsed, err := ParseAlgorithm(alg.String())
		require.NoError(t, err)
		assert.Equal(t, alg, parsed)
	}

	_, err := ParseAlgorithm("whirlpool")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, "unknown", Algorithm(999).String())
	_, err = New(Algorithm(999), nil)
	assert.ErrorIs(t, err, ErrUnsupported)

	assert.True(t, SHAKE128.IsXOF())
	assert.True(t, BLAKE3.IsXOF())
	assert.False(t, SHA256.IsXOF())
	assert.NotZero(t, BLAKE2bp.Capabilities()&CapTree)
	assert.NotZero(t, BLAKE2b.Capabilities()&CapSalted)
	assert.Zero(t, MD5.Capabilities())
}

func TestChunkedFeedsMatchWhole(t *testing.T) {
	buf := make([]byte, 10000)
	_, _ = rand.Read(buf)

	for _, alg := range Supported() {
		alg := alg
		t.Run(alg.String(), func(t *testing.T) {
			whole, err := Sum(alg, buf)
			require.NoError(t, err)

			rng := mrand.New(mrand.NewSource(int64(alg)))
			h, err := New(alg, nil)
			require.NoError(t, err)
			for off := 0; off < len(buf); {
				n := min(1+rng.Intn(997), len(buf)-off)
				require.NoError(t, h.Feed(buf[off:off+n]))
				off += n
			}
			assert.Equal(t, whole, h.Finalize())
		})
	}
}

func TestFinalizeSemantics(t *testing.T) {
	h, err := New(SHA256, nil)
	require.NoError(t, err)
	require.NoError(t, h.Feed([]byte("abc")))

	first := h.Finalize()
	assert.Equal(t, first, h.Finalize(), "Finalize must be idempotent")
	assert.ErrorIs(t, h.Feed([]byte("more")), ErrFinalized)

	_, err = h.FinalizeXOF()
	assert.ErrorIs(t, err, ErrNotXOF)
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		alg  Algorithm
		cfg  *Config
	}{
		{"key on md5", MD5, &Config{Key: []byte("k")}},
		{"salt on sha256", SHA256, &Config{Salt: []byte("s")}},
		{"salt on blake3", BLAKE3, &Config{Salt: []byte("s")}},
		{"wrong sha256 size", SHA256, &Config{Size: 16}},
		{"negative size", SHA512, &Config{Size: -1}},
		{"oversized blake2b", BLAKE2b, &Config{Size: 65}},
		{"oversized blake2s key", BLAKE2s, &Config{Key: make([]byte, 33)}},
		{"short blake3 key", BLAKE3, &Config{Key: make([]byte, 16)}},
		{"oversized blake2b salt", BLAKE2b, &Config{Salt: make([]byte, 17)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.alg, tc.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	// Accepted parameterizations.
	for _, ok := range []struct {
		alg Algorithm
		cfg *Config
	}{
		{BLAKE2b, &Config{Size: 20, Key: []byte("key"), Salt: []byte("0123456789abcdef"), Personal: []byte("fedcba9876543210")}},
		{BLAKE2sp, &Config{Size: 32, Key: make([]byte, 32)}},
		{BLAKE3, &Config{Size: 100, Key: make([]byte, 32)}},
		{SHAKE128, &Config{Size: 1000}},
		{SHA256, &Config{Size: 32}},
	} {
		_, err := New(ok.alg, ok.cfg)
		assert.NoError(t, err, "%s", ok.alg)
	}
}

func TestKeyedModesDiffer(t *testing.T) {
	msg := []byte("keyed separation")
	for _, alg := range []Algorithm{BLAKE2b, BLAKE2s, BLAKE2bp, BLAKE2sp, BLAKE3} {
		alg := alg
		t.Run(alg.String(), func(t *testing.T) {
			key := make([]byte, 32)
			key[0] = 1

			plain, err := New(alg, nil)
			require.NoError(t, err)
			keyed, err := New(alg, &Config{Key: key})
			require.NoError(t, err)
			require.NoError(t, plain.Feed(msg))
			require.NoError(t, keyed.Feed(msg))
			assert.NotEqual(t, plain.Finalize(), keyed.Finalize())
		})
	}
}

func TestFanOutSensitivity(t *testing.T) {
	msg := make([]byte, 2048)
	_, _ = rand.Read(msg)

	seqB, err := Sum(BLAKE2b, msg)
	require.NoError(t, err)
	treeB, err := Sum(BLAKE2bp, msg)
	require.NoError(t, err)
	treeS, err := Sum(BLAKE2sp, msg)
	require.NoError(t, err)

	assert.NotEqual(t, seqB, treeB, "BLAKE2bp must not collapse to BLAKE2b")
	assert.NotEqual(t, treeB[:32], treeS, "fan-out 4 and fan-out 8 trees must differ")
}

func TestXOFStream(t *testing.T) {
	msg := []byte("extendable output")
	for _, alg := range []Algorithm{SHAKE128, SHAKE256, BLAKE2Xb, BLAKE2Xs, BLAKE3} {
		alg := alg
		t.Run(alg.String(), func(t *testing.T) {
			h, err := New(alg, &Config{Size: 300})
			require.NoError(t, err)
			require.NoError(t, h.Feed(msg))
			r, err := h.FinalizeXOF()
			require.NoError(t, err)

			whole := make([]byte, 300)
			_, err = io.ReadFull(r, whole)
			require.NoError(t, err)

			// Bounded streams end.
			n, err := r.Read(make([]byte, 1))
			assert.Zero(t, n)
			assert.ErrorIs(t, err, io.EOF)

			// Seek anywhere and re-read the same bytes.
			for _, off := range []int64{0, 1, 64, 137, 299} {
				_, err := r.Seek(off, io.SeekStart)
				require.NoError(t, err)
				got := make([]byte, min(32, 300-int(off)))
				_, err = io.ReadFull(r, got)
				require.NoError(t, err)
				assert.Equal(t, whole[off:int(off)+len(got)], got, "seek to %d", off)
			}

			// Finalize on the same parameters returns the stream head.
			h2, err := New(alg, &Config{Size: 300})
			require.NoError(t, err)
			require.NoError(t, h2.Feed(msg))
			assert.Equal(t, whole, h2.Finalize())
		})
	}
}

func TestXOFPrefixConsistency(t *testing.T) {
	// SHAKE and BLAKE3 output is length-independent: a short request is a
	// prefix of a longer one. BLAKE2X binds the requested length into the
	// parameter block, so it holds only within one declared length.
	msg := []byte("prefix property")
	for _, alg := range []Algorithm{SHAKE128, SHAKE256, BLAKE3} {
		alg := alg
		t.Run(alg.String(), func(t *testing.T) {
			short, err := New(alg, &Config{Size: 32})
			require.NoError(t, err)
			long, err := New(alg, &Config{Size: 256})
			require.NoError(t, err)
			require.NoError(t, short.Feed(msg))
			require.NoError(t, long.Feed(msg))
			assert.Equal(t, short.Finalize(), long.Finalize()[:32])
		})
	}
}

func TestXOFUnbounded(t *testing.T) {
	for _, alg := range []Algorithm{SHAKE128, BLAKE2Xb, BLAKE2Xs, BLAKE3} {
		alg := alg
		t.Run(alg.String(), func(t *testing.T) {
			h, err := New(alg, nil)
			require.NoError(t, err)
			require.NoError(t, h.Feed([]byte("unbounded")))
			r, err := h.FinalizeXOF()
			require.NoError(t, err)
			buf := make([]byte, 100000)
			_, err = io.ReadFull(r, buf)
			require.NoError(t, err)
		})
	}
}

func TestSumMatchesHasher(t *testing.T) {
	msg := []byte("one-shot")
	for _, alg := range Supported() {
		alg := alg
		oneShot, err := Sum(alg, msg)
		require.NoError(t, err)

		h, err := New(alg, nil)
		require.NoError(t, err)
		require.NoError(t, h.Feed(msg))
		assert.Equal(t, oneShot, h.Finalize(), "%s", alg)
	}
}

func BenchmarkSum(b *testing.B) {
	buf := make([]byte, 64*1024)
	_, _ = rand.Read(buf)
	for _, alg := range []Algorithm{SHA256, SHA3_256, BLAKE2b, BLAKE2bp, BLAKE3} {
		alg := alg
		b.Run(alg.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(buf)))
			for i := 0; i < b.N; i++ {
				_, _ = Sum(alg, buf)
			}
		})
	}
}
