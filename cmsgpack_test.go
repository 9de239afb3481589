package cmsgpack

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/svenboertjens/cmsgpack-sub000/errs"
	"github.com/svenboertjens/cmsgpack-sub000/exttype"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []any{
		nil, true, false,
		int64(0), int64(127), int64(-32), int64(-33), int64(128),
		"hello", 1.5,
		[]any{int64(1), int64(2), int64(3)},
		map[any]any{"a": int64(1)},
	}

	for _, v := range values {
		data, err := Encode(v)
		require.NoError(t, err)

		got, err := Decode(data)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestDecodeTrailingData(t *testing.T) {
	data, err := Encode(int64(1))
	require.NoError(t, err)

	withTrailer := append(append([]byte{}, data...), 0xC0)

	_, err = Decode(withTrailer)
	require.NoError(t, err, "allow_trailing defaults to true")

	_, err = Decode(withTrailer, WithAllowTrailing(false))
	require.ErrorIs(t, err, errs.ErrTrailingData)
}

func TestEncodeStrictKeysRejectsNonStringKeys(t *testing.T) {
	_, err := Encode(map[any]any{int64(1): "value"}, WithStrictKeys(true))
	require.Error(t, err)
}

type point struct{ X, Y int64 }

func TestExtTypesRoundTrip(t *testing.T) {
	encTable := ExtTypesEncode(map[reflect.Type]exttype.EncodeFunc{
		reflect.TypeOf(point{}): func(v any) (int8, []byte, error) {
			p := v.(point)
			return 1, []byte{byte(p.X), byte(p.Y)}, nil
		},
	})
	decTable := ExtTypesDecode(map[int8]exttype.DecodeFunc{
		1: func(payload []byte) (any, error) {
			return point{X: int64(payload[0]), Y: int64(payload[1])}, nil
		},
	})

	data, err := Encode(point{X: 3, Y: 4}, WithEncodeExtTypes(encTable))
	require.NoError(t, err)

	got, err := Decode(data, WithDecodeExtTypes(decTable))
	require.NoError(t, err)
	require.Equal(t, point{X: 3, Y: 4}, got)
}

func TestEncoderDecoderInMemory(t *testing.T) {
	enc := NewEncoder()
	data, err := enc.Encode(map[any]any{"k": int64(9)})
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	dec := NewDecoder()
	got, err := dec.Decode(data)
	require.NoError(t, err)
	require.Equal(t, map[any]any{"k": int64(9)}, got)
	require.NoError(t, dec.Close())
}

func TestEncoderDecoderStreamingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "root_stream.msgpack")

	enc := NewEncoder(WithFileName(path))
	out, err := enc.Encode(int64(1))
	require.NoError(t, err)
	require.Nil(t, out)
	_, err = enc.Encode("second value")
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	dec := NewDecoder(WithDecodeFileName(path))
	v1, err := dec.Decode(nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), v1)

	v2, err := dec.Decode(nil)
	require.NoError(t, err)
	require.Equal(t, "second value", v2)

	_, err = dec.Decode(nil)
	require.ErrorIs(t, err, errs.ErrEOF)
	require.NoError(t, dec.Close())
}

func TestMaxDepthOptionsPropagate(t *testing.T) {
	var nested any = int64(1)
	for i := 0; i < 10; i++ {
		nested = []any{nested}
	}

	_, err := Encode(nested, WithEncodeMaxDepth(3))
	require.Error(t, err)

	data, err := Encode(nested)
	require.NoError(t, err)

	_, err = Decode(data, WithDecodeMaxDepth(3))
	require.Error(t, err)
}
