package blake2s

import (
	"crypto/rand"
	"fmt"
	"testing"
)

// sequentialTree recomputes BLAKE2sp with plain sequential digests:
// eight leaves fed round-robin one block at a time, then a depth-1 root
// over the concatenated leaf digests.
func sequentialTree(data, key []byte, size int) []byte {
	var leaves [Parallelism]*Digest
	for i := range leaves {
		leaves[i], _ = NewConfig(&Config{
			Size: size,
			Key:  key,
			Tree: &Tree{
				Fanout:     Parallelism,
				MaxDepth:   2,
				NodeOffset: uint64(i),
				InnerSize:  Size,
				IsLastNode: i == Parallelism-1,
			},
		})
	}
	for i := 0; len(data) > 0; i++ {
		n := min(BlockSize, len(data))
		_, _ = leaves[i%Parallelism].Write(data[:n])
		data = data[n:]
	}

	root, _ := NewConfig(&Config{
		Size: size,
		Tree: &Tree{
			Fanout:     Parallelism,
			MaxDepth:   2,
			NodeDepth:  1,
			InnerSize:  Size,
			IsLastNode: true,
		},
	})
	root.ih[0] ^= uint32(len(key)) << 8
	root.Reset()
	for _, leaf := range leaves {
		_, _ = root.Write(leaf.Sum(nil))
	}
	return root.Sum(nil)
}

func TestParallelAgainstSequentialTree(t *testing.T) {
	buf := make([]byte, 8192)
	_, _ = rand.Read(buf)
	key := buf[:KeySize]

	for _, n := range []int{0, 1, 63, 64, 65, 511, 512, 513, 4096, 8192} {
		for _, keyed := range []bool{false, true} {
			t.Run(fmt.Sprintf("len%d_keyed%v", n, keyed), func(t *testing.T) {
				var k []byte
				if keyed {
					k = key
				}
				d, err := NewParallel(Size, k)
				if err != nil {
					t.Fatal(err)
				}
				_, _ = d.Write(buf[:n])
				got := d.Sum(nil)
				want := sequentialTree(buf[:n], k, Size)
				if string(got) != string(want) {
					t.Errorf("got %x, want %x", got, want)
				}
			})
		}
	}
}

func TestParallelChunkedWrites(t *testing.T) {
	buf := make([]byte, 10000)
	_, _ = rand.Read(buf)

	whole, _ := NewParallel(Size, nil)
	_, _ = whole.Write(buf)
	want := whole.Sum(nil)

	for _, step := range []int{1, 7, 63, 64, 65, 1000} {
		d, _ := NewParallel(Size, nil)
		for i := 0; i < len(buf); i += step {
			_, _ = d.Write(buf[i:min(i+step, len(buf))])
		}
		if got := d.Sum(nil); string(got) != string(want) {
			t.Errorf("step %d: got %x, want %x", step, got, want)
		}
	}
}

func TestParallelDiffersFromSequential(t *testing.T) {
	msg := []byte("fan-out separates the algorithms")
	flat := Sum256(msg)

	d, _ := NewParallel(Size, nil)
	_, _ = d.Write(msg)
	tree := d.Sum(nil)
	if string(tree) == string(flat[:]) {
		t.Error("BLAKE2sp matched BLAKE2s")
	}
}

func BenchmarkSumParallel(b *testing.B) {
	buf := make([]byte, 1024*1024)
	_, _ = rand.Read(buf)
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	for i := 0; i < b.N; i++ {
		SumParallel(buf)
	}
}
