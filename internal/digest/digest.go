// Package digest accumulates the commit digest of a ledger transaction.
//
// Every value is hashed by its ion hash. Two hashes are combined by the
// dot operation: SHA-256 over both hashes concatenated in a canonical order,
// so that a·b == b·a.
package digest

import (
	"bytes"
	"crypto/sha256"

	"github.com/amzn/ion-go/ion"
	ionhash "github.com/amzn/ion-hash-go"

	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

// Hash is a SHA-256 hash of a value. The zero Hash is the identity of Dot.
type Hash []byte

// Of hashes an arbitrary value by its ion representation.
func Of(v any) (Hash, error) {
	b, err := ion.MarshalBinary(v)
	if err != nil {
		return nil, xerrors.WithStackTrace(xerrors.Client("hash value: %w", err))
	}

	return OfEncoded(b)
}

// OfEncoded hashes an already encoded value.
func OfEncoded(b []byte) (Hash, error) {
	r, err := ionhash.NewHashReader(ion.NewReaderBytes(b), ionhash.NewCryptoHasherProvider(ionhash.SHA256))
	if err != nil {
		return nil, xerrors.WithStackTrace(xerrors.Client("hash value: %w", err))
	}
	for r.Next() {
	}
	if err := r.Err(); err != nil {
		return nil, xerrors.WithStackTrace(xerrors.Client("hash value: %w", err))
	}
	sum, err := r.Sum(nil)
	if err != nil {
		return nil, xerrors.WithStackTrace(xerrors.Client("hash value: %w", err))
	}

	return sum, nil
}

// Dot combines two hashes.
func Dot(a, b Hash) (Hash, error) {
	switch {
	case len(a) == 0:
		return b, nil
	case len(b) == 0:
		return a, nil
	case len(a) != len(b):
		return nil, xerrors.WithStackTrace(xerrors.Client("hashes are not the same length: %d != %d", len(a), len(b)))
	}

	concatenated := make([]byte, 0, len(a)+len(b))
	if compare(a, b) < 0 {
		concatenated = append(append(concatenated, a...), b...)
	} else {
		concatenated = append(append(concatenated, b...), a...)
	}
	sum := sha256.Sum256(concatenated)

	return sum[:], nil
}

// compare orders hashes as signed bytes starting from the last one.
func compare(a, b Hash) int {
	for i := len(a) - 1; i >= 0; i-- {
		if d := int(int8(a[i])) - int(int8(b[i])); d != 0 {
			return d
		}
	}

	return 0
}

func (h Hash) Equal(other []byte) bool {
	return bytes.Equal(h, other)
}

// Accumulator is a running digest of a transaction.
type Accumulator struct {
	digest Hash
}

// NewAccumulator seeds the digest with the transaction id.
func NewAccumulator(transactionID string) (*Accumulator, error) {
	seed, err := Of(transactionID)
	if err != nil {
		return nil, err
	}

	return &Accumulator{digest: seed}, nil
}

// Statement folds an executed statement with its encoded parameters into the digest.
func (a *Accumulator) Statement(statement string, params ...[]byte) error {
	h, err := Of(statement)
	if err != nil {
		return err
	}
	for _, p := range params {
		ph, err := OfEncoded(p)
		if err != nil {
			return err
		}
		if h, err = Dot(h, ph); err != nil {
			return err
		}
	}
	d, err := Dot(a.digest, h)
	if err != nil {
		return err
	}
	a.digest = d

	return nil
}

// Sum returns a copy of the current digest.
func (a *Accumulator) Sum() Hash {
	return bytes.Clone(a.digest)
}
