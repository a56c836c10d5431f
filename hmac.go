package digest

import "github.com/pkg/errors"

// HMAC computes the FIPS 198-1 keyed MAC of msg over any fixed-output
// algorithm, using the algorithm's block size. Keys longer than the
// block are hashed first. Extendable-output and tree algorithms are
// rejected: HMAC's block structure is only defined for plain sequential
// hashes, and the BLAKE families carry native keyed modes instead.
func HMAC(alg Algorithm, key, msg []byte) ([]byte, error) {
	e, err := lookup(alg)
	if err != nil {
		return nil, err
	}
	if e.caps&(CapXOF|CapTree) != 0 {
		return nil, errors.Wrapf(ErrUnsupported, "hmac over %s", e.name)
	}
	block := e.block
	if len(key) > block {
		key, err = Sum(alg, key)
		if err != nil {
			return nil, err
		}
	}
	ipad := make([]byte, block)
	opad := make([]byte, block)
	copy(ipad, key)
	copy(opad, key)
	for i := range ipad {
		ipad[i] ^= 0x36
		opad[i] ^= 0x5c
	}

	inner, err := New(alg, nil)
	if err != nil {
		return nil, err
	}
	_ = inner.Feed(ipad)
	_ = inner.Feed(msg)

	outer, err := New(alg, nil)
	if err != nil {
		return nil, err
	}
	_ = outer.Feed(opad)
	_ = outer.Feed(inner.Finalize())
	return outer.Finalize(), nil
}
