package blake2b

import (
	"crypto/rand"
	"fmt"
	"io"
	"testing"

	xblake2b "golang.org/x/crypto/blake2b"
)

func TestXOFAgainstXCrypto(t *testing.T) {
	msg := make([]byte, 1000)
	_, _ = rand.Read(msg)
	key := msg[:32]

	for _, size := range []uint32{1, 32, 64, 65, 100, 1000, 4096} {
		for _, keyed := range []bool{false, true} {
			t.Run(fmt.Sprintf("size%d_keyed%v", size, keyed), func(t *testing.T) {
				var k []byte
				if keyed {
					k = key
				}
				x, err := NewXOF(size, k, nil, nil)
				if err != nil {
					t.Fatal(err)
				}
				ref, err := xblake2b.NewXOF(size, k)
				if err != nil {
					t.Fatal(err)
				}
				_, _ = x.Write(msg)
				_, _ = ref.Write(msg)

				got := make([]byte, size)
				want := make([]byte, size)
				if _, err := io.ReadFull(x, got); err != nil {
					t.Fatal(err)
				}
				if _, err := io.ReadFull(ref, want); err != nil {
					t.Fatal(err)
				}
				if string(got) != string(want) {
					t.Errorf("output mismatch:\n got %x\nwant %x", got, want)
				}
				if n, err := x.Read(make([]byte, 1)); n != 0 || err != io.EOF {
					t.Errorf("read past end: n=%d err=%v, want EOF", n, err)
				}
			})
		}
	}
}

func TestXOFUnknownLength(t *testing.T) {
	x, err := NewXOF(OutputLengthUnknown, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := xblake2b.NewXOF(xblake2b.OutputLengthUnknown, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = x.Write([]byte("unbounded"))
	_, _ = ref.Write([]byte("unbounded"))

	got := make([]byte, 513)
	want := make([]byte, 513)
	if _, err := io.ReadFull(x, got); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadFull(ref, want); err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Errorf("output mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestXOFSeek(t *testing.T) {
	x, err := NewXOF(1000, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = x.Write([]byte("seekable"))
	whole := make([]byte, 1000)
	if _, err := io.ReadFull(x, whole); err != nil {
		t.Fatal(err)
	}

	for _, off := range []int64{0, 1, 63, 64, 65, 500, 999} {
		if _, err := x.Seek(off, io.SeekStart); err != nil {
			t.Fatal(err)
		}
		got := make([]byte, min(64, 1000-int(off)))
		if _, err := io.ReadFull(x, got); err != nil {
			t.Fatal(err)
		}
		if string(got) != string(whole[off:int(off)+len(got)]) {
			t.Errorf("seek %d: got %x, want %x", off, got, whole[off:int(off)+len(got)])
		}
	}

	if pos, err := x.Seek(-10, io.SeekEnd); err != nil || pos != 990 {
		t.Errorf("SeekEnd: pos=%d err=%v", pos, err)
	}
	if _, err := x.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative seek accepted")
	}
}

func TestXOFSaltPersonal(t *testing.T) {
	plain, _ := NewXOF(64, nil, nil, nil)
	salted, err := NewXOF(64, nil, []byte("0123456789abcdef"), []byte("fedcba9876543210"))
	if err != nil {
		t.Fatal(err)
	}
	_, _ = plain.Write([]byte("msg"))
	_, _ = salted.Write([]byte("msg"))
	a := make([]byte, 64)
	b := make([]byte, 64)
	_, _ = io.ReadFull(plain, a)
	_, _ = io.ReadFull(salted, b)
	if string(a) == string(b) {
		t.Error("salt and personalization did not change the stream")
	}
}

func TestXOFSplitReads(t *testing.T) {
	whole, _ := NewXOF(32, nil, nil, nil)
	split, _ := NewXOF(32, nil, nil, nil)
	_, _ = whole.Write([]byte("prefix"))
	_, _ = split.Write([]byte("prefix"))

	a := make([]byte, 32)
	b := make([]byte, 32)
	_, _ = io.ReadFull(whole, a)
	// Read the same stream in two halves.
	_, _ = io.ReadFull(split, b[:16])
	_, _ = io.ReadFull(split, b[16:])
	if string(a) != string(b) {
		t.Errorf("split reads diverged: %x vs %x", a, b)
	}
}

// The requested length is part of the parameter block, so a 32-byte XOF
// is not a prefix of a 64-byte one. Prefix consistency holds only within
// a single declared length, which includes the unknown-length mode.
func TestXOFUnknownLengthPrefix(t *testing.T) {
	short, _ := NewXOF(OutputLengthUnknown, nil, nil, nil)
	long, _ := NewXOF(OutputLengthUnknown, nil, nil, nil)
	_, _ = short.Write([]byte("prefix"))
	_, _ = long.Write([]byte("prefix"))

	a := make([]byte, 32)
	b := make([]byte, 128)
	_, _ = io.ReadFull(short, a)
	_, _ = io.ReadFull(long, b)
	if string(a) != string(b[:32]) {
		t.Errorf("short read is not a prefix of the long read: %x vs %x", a, b[:32])
	}

	declared, _ := NewXOF(32, nil, nil, nil)
	_, _ = declared.Write([]byte("prefix"))
	c := make([]byte, 32)
	_, _ = io.ReadFull(declared, c)
	if string(a) == string(c) {
		t.Error("declared-length stream unexpectedly matches unknown-length stream")
	}
}
