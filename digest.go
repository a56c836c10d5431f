// Package digest is a multi-algorithm incremental hash engine. It
// registers the MD5, SHA-1, SHA-2, SHA-3/SHAKE, BLAKE2 and BLAKE3
// families behind one Algorithm enum and one streaming Hasher contract,
// with keyed, salted, tree and extendable-output variants where the
// algorithm defines them.
package digest

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hashforge/digest/blake2b"
	"github.com/hashforge/digest/blake2s"
	"github.com/hashforge/digest/blake3"
	"github.com/hashforge/digest/md5"
	"github.com/hashforge/digest/sha1"
	"github.com/hashforge/digest/sha2"
	"github.com/hashforge/digest/sha3"
)

// Algorithm identifies a registered hash algorithm.
type Algorithm int

const (
	None Algorithm = iota
	MD5
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
	SHA512_224
	SHA512_256
	SHA3_224
	SHA3_256
	SHA3_384
	SHA3_512
	SHAKE128
	SHAKE256
	BLAKE2b
	BLAKE2s
	BLAKE2bp
	BLAKE2sp
	BLAKE2Xb
	BLAKE2Xs
	BLAKE3
)

// Capability flags describe what an algorithm's parameter space admits.
type Capability uint8

const (
	// CapXOF marks extendable-output algorithms.
	CapXOF Capability = 1 << iota
	// CapTree marks tree or parallel constructions.
	CapTree
	// CapKeyed marks algorithms with a native keyed mode.
	CapKeyed
	// CapSalted marks algorithms accepting a salt and personalization.
	CapSalted
)

// entry is one row of the algorithm table.
type entry struct {
	alg   Algorithm
	name  string
	size  int // default digest size in bytes
	block int
	caps  Capability
	open  func(c *Config) (backend, error)
}

var (
	registry = map[Algorithm]*entry{}
	byName   = map[string]*entry{}
	order    []Algorithm
)

func register(alg Algorithm, name string, size, block int, caps Capability, open func(c *Config) (backend, error)) {
	e := &entry{alg: alg, name: name, size: size, block: block, caps: caps, open: open}
	registry[alg] = e
	byName[name] = e
	order = append(order, alg)
}

func lookup(alg Algorithm) (*entry, error) {
	e, ok := registry[alg]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "algorithm %d", int(alg))
	}
	return e, nil
}

// Supported returns all registered algorithms in registration order.
func Supported() []Algorithm {
	out := make([]Algorithm, len(order))
	copy(out, order)
	return out
}

// ParseAlgorithm resolves a case-insensitive algorithm name such as
// "sha256", "sha3-512" or "blake2bp".
func ParseAlgorithm(name string) (Algorithm, error) {
	e, ok := byName[strings.ToLower(name)]
	if !ok {
		return None, errors.Wrapf(ErrUnsupported, "algorithm %q", name)
	}
	return e.alg, nil
}

// String returns the registered name, or "unknown" for an unregistered
// value.
func (a Algorithm) String() string {
	if e, ok := registry[a]; ok {
		return e.name
	}
	return "unknown"
}

// Size returns the default digest size in bytes, 0 for unregistered
// algorithms.
func (a Algorithm) Size() int {
	if e, ok := registry[a]; ok {
		return e.size
	}
	return 0
}

// BlockSize returns the input block size in bytes (the sponge rate for
// the SHA-3 family), 0 for unregistered algorithms.
func (a Algorithm) BlockSize() int {
	if e, ok := registry[a]; ok {
		return e.block
	}
	return 0
}

// Capabilities returns the algorithm's capability flags.
func (a Algorithm) Capabilities() Capability {
	if e, ok := registry[a]; ok {
		return e.caps
	}
	return 0
}

// IsXOF reports whether the algorithm has extendable output.
func (a Algorithm) IsXOF() bool { return a.Capabilities()&CapXOF != 0 }

// New returns a Hasher for the algorithm. A nil config selects the
// algorithm defaults.
func New(alg Algorithm, c *Config) (*Hasher, error) {
	e, err := lookup(alg)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Config{}
	}
	if err := c.validate(e); err != nil {
		return nil, err
	}
	b, err := e.open(c)
	if err != nil {
		return nil, err
	}
	size := e.size
	if c.Size > 0 {
		size = c.Size
	}
	return &Hasher{alg: alg, size: size, block: e.block, b: b}, nil
}

// Sum is the one-shot form of New, Feed, Finalize.
func Sum(alg Algorithm, data []byte) ([]byte, error) {
	h, err := New(alg, nil)
	if err != nil {
		return nil, err
	}
	if err := h.Feed(data); err != nil {
		return nil, err
	}
	return h.Finalize(), nil
}

func init() {
	register(MD5, "md5", md5.Size, md5.BlockSize, 0, func(c *Config) (backend, error) {
		return fixed(md5.New()), nil
	})
	register(SHA1, "sha1", sha1.Size, sha1.BlockSize, 0, func(c *Config) (backend, error) {
		return fixed(sha1.New()), nil
	})
	register(SHA224, "sha224", sha2.Size224, sha2.BlockSize256, 0, func(c *Config) (backend, error) {
		return fixed(sha2.New224()), nil
	})
	register(SHA256, "sha256", sha2.Size256, sha2.BlockSize256, 0, func(c *Config) (backend, error) {
		return fixed(sha2.New256()), nil
	})
	register(SHA384, "sha384", sha2.Size384, sha2.BlockSize512, 0, func(c *Config) (backend, error) {
		return fixed(sha2.New384()), nil
	})
	register(SHA512, "sha512", sha2.Size512, sha2.BlockSize512, 0, func(c *Config) (backend, error) {
		return fixed(sha2.New512()), nil
	})
	register(SHA512_224, "sha512-224", sha2.Size224, sha2.BlockSize512, 0, func(c *Config) (backend, error) {
		return fixed(sha2.New512_224()), nil
	})
	register(SHA512_256, "sha512-256", sha2.Size256, sha2.BlockSize512, 0, func(c *Config) (backend, error) {
		return fixed(sha2.New512_256()), nil
	})
	register(SHA3_224, "sha3-224", 28, 144, 0, func(c *Config) (backend, error) {
		return fixed(sha3.New224()), nil
	})
	register(SHA3_256, "sha3-256", 32, 136, 0, func(c *Config) (backend, error) {
		return fixed(sha3.New256()), nil
	})
	register(SHA3_384, "sha3-384", 48, 104, 0, func(c *Config) (backend, error) {
		return fixed(sha3.New384()), nil
	})
	register(SHA3_512, "sha3-512", 64, 72, 0, func(c *Config) (backend, error) {
		return fixed(sha3.New512()), nil
	})
	register(SHAKE128, "shake128", 32, 168, CapXOF, func(c *Config) (backend, error) {
		return shakeBackend(sha3.NewShake128(), c.Size), nil
	})
	register(SHAKE256, "shake256", 64, 136, CapXOF, func(c *Config) (backend, error) {
		return shakeBackend(sha3.NewShake256(), c.Size), nil
	})
	register(BLAKE2b, "blake2b", blake2b.Size, blake2b.BlockSize, CapKeyed|CapSalted, func(c *Config) (backend, error) {
		d, err := blake2b.NewConfig(&blake2b.Config{
			Size: c.Size, Key: c.Key, Salt: c.Salt, Personal: c.Personal,
		})
		if err != nil {
			return backend{}, errors.Wrap(ErrInvalidConfig, err.Error())
		}
		return fixed(d), nil
	})
	register(BLAKE2s, "blake2s", blake2s.Size, blake2s.BlockSize, CapKeyed|CapSalted, func(c *Config) (backend, error) {
		d, err := blake2s.NewConfig(&blake2s.Config{
			Size: c.Size, Key: c.Key, Salt: c.Salt, Personal: c.Personal,
		})
		if err != nil {
			return backend{}, errors.Wrap(ErrInvalidConfig, err.Error())
		}
		return fixed(d), nil
	})
	register(BLAKE2bp, "blake2bp", blake2b.Size, blake2b.BlockSize, CapKeyed|CapTree, func(c *Config) (backend, error) {
		d, err := blake2b.NewParallel(c.Size, c.Key)
		if err != nil {
			return backend{}, errors.Wrap(ErrInvalidConfig, err.Error())
		}
		return fixed(d), nil
	})
	register(BLAKE2sp, "blake2sp", blake2s.Size, blake2s.BlockSize, CapKeyed|CapTree, func(c *Config) (backend, error) {
		d, err := blake2s.NewParallel(c.Size, c.Key)
		if err != nil {
			return backend{}, errors.Wrap(ErrInvalidConfig, err.Error())
		}
		return fixed(d), nil
	})
	register(BLAKE2Xb, "blake2xb", blake2b.Size, blake2b.BlockSize, CapXOF|CapKeyed|CapSalted, func(c *Config) (backend, error) {
		if int64(c.Size) > (1<<32)-2 {
			return backend{}, errors.Wrap(ErrInvalidConfig, "blake2xb: output length too large")
		}
		x, err := blake2b.NewXOF(uint32(c.Size), c.Key, c.Salt, c.Personal)
		if err != nil {
			return backend{}, errors.Wrap(ErrInvalidConfig, err.Error())
		}
		return xofBackend(x, func() OutputReader { return x }), nil
	})
	register(BLAKE2Xs, "blake2xs", blake2s.Size, blake2s.BlockSize, CapXOF|CapKeyed|CapSalted, func(c *Config) (backend, error) {
		if c.Size > (1<<16)-2 {
			return backend{}, errors.Wrap(ErrInvalidConfig, "blake2xs: output length too large")
		}
		x, err := blake2s.NewXOF(uint16(c.Size), c.Key, c.Salt, c.Personal)
		if err != nil {
			return backend{}, errors.Wrap(ErrInvalidConfig, err.Error())
		}
		return xofBackend(x, func() OutputReader { return x }), nil
	})
	register(BLAKE3, "blake3", blake3.Size, blake3.BlockSize, CapXOF|CapKeyed|CapTree, func(c *Config) (backend, error) {
		if len(c.Key) > 0 && len(c.Key) != blake3.KeySize {
			return backend{}, errors.Wrap(ErrInvalidConfig, "blake3: key must be exactly 32 bytes")
		}
		var key []byte
		if len(c.Key) == blake3.KeySize {
			key = c.Key
		}
		h := blake3.New(c.Size, key)
		return xofBackend(h, func() OutputReader {
			if c.Size > 0 {
				return limitOutput(h.XOF(), int64(c.Size))
			}
			return h.XOF()
		}), nil
	})
}
