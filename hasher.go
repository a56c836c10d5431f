package digest

import (
	"io"

	"github.com/pkg/errors"

	"github.com/hashforge/digest/sha3"
)

// OutputReader streams the output of an extendable-output computation.
// BLAKE2X and BLAKE3 seek in constant time; SHAKE re-squeezes from the
// saved post-absorb state when seeking backwards.
type OutputReader interface {
	io.Reader
	io.Seeker
}

// backend is the family digest behind a Hasher: an absorb target plus
// exactly one of the two finalization paths.
type backend struct {
	w   io.Writer
	sum func() []byte
	xof func() OutputReader
}

type fixedHash interface {
	io.Writer
	Sum(in []byte) []byte
}

func fixed(h fixedHash) backend {
	return backend{w: h, sum: func() []byte { return h.Sum(nil) }}
}

func xofBackend(w io.Writer, open func() OutputReader) backend {
	return backend{w: w, xof: open}
}

func shakeBackend(d *sha3.Digest, size int) backend {
	return backend{
		w: d,
		xof: func() OutputReader {
			r := &shakeReader{base: d.Clone()}
			if size > 0 {
				return limitOutput(r, int64(size))
			}
			return r
		},
	}
}

// Hasher is the streaming contract over every registered algorithm:
// Feed until finalized, then Finalize for a digest or FinalizeXOF for an
// output stream.
type Hasher struct {
	alg   Algorithm
	size  int
	block int
	b     backend
	done  bool
	sum   []byte
	out   OutputReader
}

func (h *Hasher) Algorithm() Algorithm { return h.alg }

func (h *Hasher) Size() int { return h.size }

func (h *Hasher) BlockSize() int { return h.block }

// Feed absorbs more input. It fails with ErrFinalized once the hasher
// has been finalized.
func (h *Hasher) Feed(p []byte) error {
	if h.done {
		return ErrFinalized
	}
	_, err := h.b.w.Write(p)
	return err
}

// Finalize returns the digest. It is idempotent: the first call computes
// and caches the sum, later calls return it unchanged. For
// extendable-output algorithms it returns the first Size bytes of the
// stream.
func (h *Hasher) Finalize() []byte {
	if h.done {
		return h.sum
	}
	h.done = true
	if h.b.sum != nil {
		h.sum = h.b.sum()
		return h.sum
	}
	r := h.b.xof()
	buf := make([]byte, h.size)
	_, _ = io.ReadFull(r, buf)
	_, _ = r.Seek(0, io.SeekStart)
	h.out = r
	h.sum = buf
	return h.sum
}

// FinalizeXOF returns the output stream of an extendable-output
// algorithm, or ErrNotXOF for fixed-output ones. Like Finalize it seals
// the hasher against further Feed calls.
func (h *Hasher) FinalizeXOF() (OutputReader, error) {
	if h.b.xof == nil {
		return nil, errors.Wrapf(ErrNotXOF, "algorithm %s", h.alg)
	}
	if !h.done {
		h.done = true
		h.out = h.b.xof()
	}
	return h.out, nil
}

// shakeReader squeezes a SHAKE sponge. Seeking backwards restarts from
// the post-absorb snapshot and discards forward, so seeks cost O(offset)
// permutations rather than O(1).
type shakeReader struct {
	base *sha3.Digest // post-absorb, pre-squeeze snapshot
	cur  *sha3.Digest
	pos  int64
}

func (r *shakeReader) Read(p []byte) (int, error) {
	if r.cur == nil {
		r.cur = r.base.Clone()
	}
	n, err := r.cur.Read(p)
	r.pos += int64(n)
	return n, err
}

func (r *shakeReader) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = r.pos + offset
	case io.SeekEnd:
		return 0, errors.Wrap(ErrUnsupported, "seek from end of unbounded stream")
	default:
		return 0, errors.Wrap(ErrUnsupported, "invalid whence")
	}
	if pos < 0 {
		return 0, errors.Wrap(ErrInvalidConfig, "negative seek position")
	}
	if r.cur == nil || pos < r.pos {
		r.cur = r.base.Clone()
		r.pos = 0
	}
	var scratch [512]byte
	for r.pos < pos {
		n := pos - r.pos
		if n > int64(len(scratch)) {
			n = int64(len(scratch))
		}
		if _, err := r.cur.Read(scratch[:n]); err != nil {
			return 0, err
		}
		r.pos += n
	}
	return pos, nil
}

// limitedOutput bounds an unbounded output stream at size bytes, adding
// EOF and end-relative seeks.
type limitedOutput struct {
	r    OutputReader
	size int64
	pos  int64
}

func limitOutput(r OutputReader, size int64) OutputReader {
	return &limitedOutput{r: r, size: size}
}

func (l *limitedOutput) Read(p []byte) (int, error) {
	if l.pos >= l.size {
		return 0, io.EOF
	}
	if rem := l.size - l.pos; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := l.r.Read(p)
	l.pos += int64(n)
	return n, err
}

func (l *limitedOutput) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = l.pos + offset
	case io.SeekEnd:
		pos = l.size + offset
	default:
		return 0, errors.Wrap(ErrUnsupported, "invalid whence")
	}
	if pos < 0 {
		return 0, errors.Wrap(ErrInvalidConfig, "negative seek position")
	}
	if _, err := l.r.Seek(pos, io.SeekStart); err != nil {
		return 0, err
	}
	l.pos = pos
	return pos, nil
}
