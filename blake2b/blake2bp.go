package blake2b

import (
	"golang.org/x/sync/errgroup"
)

// Parallelism is the fixed fan-out of BLAKE2bp. It is part of the
// algorithm definition: a different fan-out yields a different hash.
const Parallelism = 4

// ParallelDigest is the streaming state of a BLAKE2bp computation:
// four independent leaf hashes fed round-robin in 128-byte blocks, whose
// concatenated digests feed a depth-1 root hash.
type ParallelDigest struct {
	leaves [Parallelism]*Digest
	root   *Digest
	size   int
	next   uint64 // index of the next input block to assign
	buf    [BlockSize]byte
	nbuf   int
}

// NewParallel returns a BLAKE2bp digest of the given size. A non-empty
// key is absorbed by every leaf.
func NewParallel(size int, key []byte) (*ParallelDigest, error) {
	if size == 0 {
		size = Size
	}
	d := &ParallelDigest{size: size}
	for i := range d.leaves {
		leaf, err := NewConfig(&Config{
			Size: size,
			Key:  key,
			Tree: &Tree{
				Fanout:     Parallelism,
				MaxDepth:   2,
				NodeOffset: uint64(i),
				NodeDepth:  0,
				InnerSize:  Size,
				IsLastNode: i == Parallelism-1,
			},
		})
		if err != nil {
			return nil, err
		}
		d.leaves[i] = leaf
	}
	root, err := NewConfig(&Config{
		Size: size,
		Tree: &Tree{
			Fanout:     Parallelism,
			MaxDepth:   2,
			NodeOffset: 0,
			NodeDepth:  1,
			InnerSize:  Size,
			IsLastNode: true,
		},
	})
	if err != nil {
		return nil, err
	}
	// The root carries the key length in its parameter block but is
	// never fed the key block itself.
	root.ih[0] ^= uint64(len(key)) << 8
	root.Reset()
	d.root = root
	return d, nil
}

func (d *ParallelDigest) Size() int { return d.size }

func (d *ParallelDigest) BlockSize() int { return BlockSize }

// Reset restores all leaves and the root to their initial state.
func (d *ParallelDigest) Reset() {
	for _, leaf := range d.leaves {
		leaf.Reset()
	}
	d.root.Reset()
	d.next = 0
	d.nbuf = 0
}

// Write distributes input blocks round-robin across the leaves. Large
// writes drive all leaves concurrently, one goroutine per leaf walking
// its strided share of the input.
func (d *ParallelDigest) Write(p []byte) (nn int, err error) {
	nn = len(p)
	if d.nbuf > 0 {
		n := copy(d.buf[d.nbuf:], p)
		d.nbuf += n
		p = p[n:]
		if d.nbuf < BlockSize {
			return
		}
		_, _ = d.leaves[d.next%Parallelism].Write(d.buf[:])
		d.next++
		d.nbuf = 0
	}
	if nblocks := len(p) / BlockSize; nblocks >= Parallelism {
		q := p[:nblocks*BlockSize]
		var g errgroup.Group
		for i := 0; i < Parallelism; i++ {
			leaf := d.leaves[(d.next+uint64(i))%Parallelism]
			start := i * BlockSize
			g.Go(func() error {
				for off := start; off+BlockSize <= len(q); off += Parallelism * BlockSize {
					_, _ = leaf.Write(q[off : off+BlockSize])
				}
				return nil
			})
		}
		_ = g.Wait()
		d.next += uint64(nblocks)
		p = p[nblocks*BlockSize:]
	}
	for len(p) >= BlockSize {
		_, _ = d.leaves[d.next%Parallelism].Write(p[:BlockSize])
		d.next++
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		d.nbuf = copy(d.buf[:], p)
	}
	return
}

// Sum appends the digest to in without disturbing the running state. The
// leaves are drained in parallel and their digests concatenated, in leaf
// order, into the root.
func (d *ParallelDigest) Sum(in []byte) []byte {
	var hashes [Parallelism][Size]byte
	var g errgroup.Group
	for i := range d.leaves {
		i := i
		g.Go(func() error {
			leaf := *d.leaves[i]
			if uint64(i) == d.next%Parallelism && d.nbuf > 0 {
				_, _ = leaf.Write(d.buf[:d.nbuf])
			}
			leaf.finalize(hashes[i][:])
			return nil
		})
	}
	_ = g.Wait()

	root := *d.root
	for i := range hashes {
		_, _ = root.Write(hashes[i][:])
	}
	out := make([]byte, d.size)
	root.finalize(out)
	return append(in, out...)
}

// SumParallel returns the unkeyed BLAKE2bp digest of data.
func SumParallel(data []byte) [Size]byte {
	d, _ := NewParallel(Size, nil)
	_, _ = d.Write(data)
	var out [Size]byte
	copy(out[:], d.Sum(nil))
	return out
}
