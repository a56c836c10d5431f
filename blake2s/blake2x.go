package blake2s

import (
	"encoding/binary"
	"errors"
	"io"
)

// OutputLengthUnknown requests an unbounded output stream from NewXOF.
const OutputLengthUnknown = 0

// magicUnknownOutputLength is the 16-bit xof-length wire value for
// unbounded output.
const magicUnknownOutputLength = (1 << 16) - 1

// maxOutputLength caps unbounded streams: 2^32 output blocks of 32
// bytes, the full range of the output block counter.
const maxOutputLength = (1 << 32) * 32

var errXOFLength = errors.New("blake2s: XOF length too large")

// XOF is a BLAKE2Xs extendable-output stream. Output block i is derived
// from the root digest alone, with i as the node offset, so blocks are
// independently addressable and the stream seekable.
type XOF struct {
	root    Digest
	length  uint16
	cfg     [32]byte
	rootSum [Size]byte
	block   [Size]byte
	blockIx uint32
	haveBlk bool
	pos     uint64
	reading bool
}

// NewXOF returns a BLAKE2Xs stream producing size bytes of output, or an
// unbounded stream for OutputLengthUnknown. Key, salt and
// personalization behave as in NewConfig.
func NewXOF(size uint16, key, salt, personal []byte) (*XOF, error) {
	if size == magicUnknownOutputLength {
		return nil, errXOFLength
	}
	if size == OutputLengthUnknown {
		size = magicUnknownOutputLength
	}
	d, err := NewConfig(&Config{Size: Size, Key: key, Salt: salt, Personal: personal})
	if err != nil {
		return nil, err
	}
	// Fold the xof length into parameter bytes 12..13, the upper part of
	// the root's node offset field.
	d.ih[3] ^= uint32(size)
	d.Reset()

	x := &XOF{root: *d, length: size}
	x.cfg[0] = byte(Size)
	binary.LittleEndian.PutUint32(x.cfg[4:], uint32(Size)) // leaf length
	binary.LittleEndian.PutUint16(x.cfg[12:], size)        // xof length
	x.cfg[15] = byte(Size)                                 // inner length
	copy(x.cfg[16:24], salt)
	copy(x.cfg[24:32], personal)
	return x, nil
}

func (x *XOF) total() uint64 {
	if x.length == magicUnknownOutputLength {
		return maxOutputLength
	}
	return uint64(x.length)
}

// Write absorbs more input into the root hash.
func (x *XOF) Write(p []byte) (int, error) {
	if x.reading {
		panic("blake2s: write to XOF after read")
	}
	return x.root.Write(p)
}

// Clone returns an independent copy of the stream.
func (x *XOF) Clone() *XOF {
	xx := *x
	return &xx
}

func (x *XOF) genBlock(idx uint32) {
	size := Size
	if rem := x.total() - uint64(idx)*Size; rem < Size {
		size = int(rem)
	}
	cfg := x.cfg
	cfg[0] = byte(size)
	binary.LittleEndian.PutUint32(cfg[8:], idx)

	var d Digest
	d.size = size
	for i := range d.h {
		d.h[i] = iv[i] ^ binary.LittleEndian.Uint32(cfg[i*4:])
	}
	_, _ = d.Write(x.rootSum[:])
	d.finalize(x.block[:size])

	x.blockIx = idx
	x.haveBlk = true
}

// Read squeezes output, finalizing the root on first use.
func (x *XOF) Read(p []byte) (n int, err error) {
	if !x.reading {
		x.root.finalize(x.rootSum[:])
		x.reading = true
	}
	total := x.total()
	if x.pos >= total {
		return 0, io.EOF
	}
	if avail := total - x.pos; uint64(len(p)) > avail {
		p = p[:avail]
	}
	n = len(p)
	for len(p) > 0 {
		idx := uint32(x.pos / Size)
		if !x.haveBlk || x.blockIx != idx {
			x.genBlock(idx)
		}
		size := Size
		if rem := total - uint64(idx)*Size; rem < Size {
			size = int(rem)
		}
		c := copy(p, x.block[int(x.pos%Size):size])
		p = p[c:]
		x.pos += uint64(c)
	}
	return
}

// Seek repositions the output stream. Seeking relative to the end is
// only meaningful for bounded streams.
func (x *XOF) Seek(offset int64, whence int) (int64, error) {
	if !x.reading {
		x.root.finalize(x.rootSum[:])
		x.reading = true
	}
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(x.pos) + offset
	case io.SeekEnd:
		if x.length == magicUnknownOutputLength {
			return 0, errors.New("blake2s: seek from end of unbounded XOF")
		}
		pos = int64(x.length) + offset
	default:
		return 0, errors.New("blake2s: invalid whence")
	}
	if pos < 0 {
		return 0, errors.New("blake2s: negative seek position")
	}
	x.pos = uint64(pos)
	return pos, nil
}
