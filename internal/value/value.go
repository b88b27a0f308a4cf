package value

import (
	"fmt"

	"github.com/amzn/ion-go/ion"

	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

const errUnexpectedPayload = "unexpected payload representation"

type byteser interface {
	Bytes() []byte
}

// Normalize returns the encoded document held by one payload slot of a page.
//
// A slot arrives as a binary buffer, as text or as a typed buffer; all of them
// are decoded by the same reader.
func Normalize(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	case *string:
		if p == nil {
			return nil, xerrors.WithStackTrace(xerrors.Client("%s: nil text", errUnexpectedPayload))
		}

		return []byte(*p), nil
	case byteser:
		return p.Bytes(), nil
	default:
		return nil, xerrors.WithStackTrace(xerrors.Client("%s: %T", errUnexpectedPayload, payload))
	}
}

// Value is an immutable decoded document.
type Value struct {
	data []byte
}

// New copies an encoded payload into a Value.
// The payload is checked to be decodable.
func New(payload any) (Value, error) {
	raw, err := Normalize(payload)
	if err != nil {
		return Value{}, err
	}
	data := make([]byte, len(raw))
	copy(data, raw)

	if err := validate(data); err != nil {
		return Value{}, err
	}

	return Value{data: data}, nil
}

// validate decodes every value of data, nested ones included.
func validate(data []byte) error {
	d := ion.NewDecoder(ion.NewReaderBytes(data))
	for {
		_, err := d.Decode()
		if xerrors.Is(err, ion.ErrNoInput) {
			return nil
		}
		if err != nil {
			return xerrors.WithStackTrace(xerrors.Client("decode document: %w", err))
		}
	}
}

// Unmarshal decodes the document into dst.
func (v Value) Unmarshal(dst any) error {
	if err := ion.Unmarshal(v.data, dst); err != nil {
		return xerrors.WithStackTrace(xerrors.Client("decode document: %w", err))
	}

	return nil
}

// Interface decodes the document into generic Go values.
func (v Value) Interface() (any, error) {
	var dst any
	if err := v.Unmarshal(&dst); err != nil {
		return nil, err
	}

	return dst, nil
}

// Bytes returns a copy of the encoded document.
func (v Value) Bytes() []byte {
	b := make([]byte, len(v.data))
	copy(b, v.data)

	return b
}

// Marshal encodes statement parameters.
func Marshal(params ...any) ([][]byte, error) {
	if len(params) == 0 {
		return nil, nil
	}
	encoded := make([][]byte, 0, len(params))
	for i, p := range params {
		b, err := ion.MarshalBinary(p)
		if err != nil {
			return nil, xerrors.WithStackTrace(xerrors.New(xerrors.KindInvalidParameter,
				fmt.Sprintf("encode parameter #%d", i),
				xerrors.WithCause(err),
			))
		}
		encoded = append(encoded, b)
	}

	return encoded, nil
}
