package digest

import "github.com/pkg/errors"

// Config carries the optional parameters of New. All fields may be left
// zero for the algorithm defaults.
type Config struct {
	// Key selects the native keyed mode of algorithms that have one.
	Key []byte
	// Salt and Personal parameterize the BLAKE2 family.
	Salt     []byte
	Personal []byte
	// Size is the digest size in bytes; 0 means the algorithm default.
	// For extendable-output algorithms it bounds the output stream, and
	// 0 means unbounded.
	Size int
}

// validate rejects parameters the algorithm's parameter space does not
// admit. Range checks on accepted parameters are left to the family
// constructors.
func (c *Config) validate(e *entry) error {
	if c.Size < 0 {
		return errors.Wrap(ErrInvalidConfig, "negative output size")
	}
	if len(c.Key) > 0 && e.caps&CapKeyed == 0 {
		return errors.Wrapf(ErrInvalidConfig, "%s does not accept a key", e.name)
	}
	if (len(c.Salt) > 0 || len(c.Personal) > 0) && e.caps&CapSalted == 0 {
		return errors.Wrapf(ErrInvalidConfig, "%s does not accept a salt or personalization", e.name)
	}
	if c.Size > 0 && e.caps&CapXOF == 0 {
		switch e.alg {
		case BLAKE2b, BLAKE2s, BLAKE2bp, BLAKE2sp:
			// Variable digest size, range-checked by the constructor.
		default:
			if c.Size != e.size {
				return errors.Wrapf(ErrInvalidConfig, "%s produces %d-byte digests", e.name, e.size)
			}
		}
	}
	return nil
}
