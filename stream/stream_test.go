package stream

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/svenboertjens/cmsgpack-sub000/compress"
	"github.com/svenboertjens/cmsgpack-sub000/errs"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "stream.msgpack")
}

func TestEncoderDecoderRoundTripSingleValue(t *testing.T) {
	path := tempPath(t)

	enc := NewEncoder(path)
	require.NoError(t, enc.Encode(map[any]any{"a": int64(1)}))
	require.NoError(t, enc.Close())

	dec := NewDecoder(path)
	v, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, map[any]any{"a": int64(1)}, v)
}

func TestEncoderDecoderRoundTripMultipleValues(t *testing.T) {
	path := tempPath(t)

	enc := NewEncoder(path)
	values := []any{int64(1), "hello", []any{int64(1), int64(2), int64(3)}, true, nil}
	for _, v := range values {
		require.NoError(t, enc.Encode(v))
	}
	require.NoError(t, enc.Close())

	dec := NewDecoder(path)
	for _, want := range values {
		got, err := dec.Decode()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := dec.Decode()
	require.ErrorIs(t, err, errs.ErrEOF)
}

func TestEncoderAppendsAcrossInstances(t *testing.T) {
	path := tempPath(t)

	enc1 := NewEncoder(path)
	require.NoError(t, enc1.Encode(int64(1)))
	require.NoError(t, enc1.Close())

	enc2 := NewEncoder(path)
	require.NoError(t, enc2.Encode(int64(2)))
	require.NoError(t, enc2.Close())

	dec := NewDecoder(path)
	v1, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, int64(1), v1)

	v2, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, int64(2), v2)
}

func TestDecoderRefillCarriesUnconsumedPrefix(t *testing.T) {
	path := tempPath(t)

	enc := NewEncoder(path)
	// A small window capacity forces the decoder to split reads across
	// item boundaries, exercising Refill's carry-forward path.
	long := make([]any, 200)
	for i := range long {
		long[i] = int64(i)
	}
	require.NoError(t, enc.Encode(long))
	require.NoError(t, enc.Encode("tail value after the array"))
	require.NoError(t, enc.Close())

	dec := NewDecoder(path, WithWindowCapacity(16))
	got, err := dec.Decode()
	require.NoError(t, err)
	require.Len(t, got, 200)

	tail, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, "tail value after the array", tail)
}

func TestDecoderEmptyFileIsEOF(t *testing.T) {
	path := tempPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	dec := NewDecoder(path)
	_, err := dec.Decode()
	require.ErrorIs(t, err, errs.ErrEOF)
}

func TestDecoderMissingFile(t *testing.T) {
	dec := NewDecoder(filepath.Join(t.TempDir(), "missing.msgpack"))
	_, err := dec.Decode()
	require.ErrorIs(t, err, errs.ErrFileOpen)
}

func TestDecoderTruncatedMidValue(t *testing.T) {
	path := tempPath(t)

	enc := NewEncoder(path)
	require.NoError(t, enc.Encode("a string long enough to need a str8 header"))
	require.NoError(t, enc.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-1], 0o644))

	dec := NewDecoder(path)
	_, err = dec.Decode()
	require.Error(t, err)
}

func TestStreamCompressionRoundTrip(t *testing.T) {
	path := tempPath(t)
	codec := compress.LZ4{}

	enc := NewEncoder(path, WithCompression(codec))
	values := []any{int64(42), "a fairly compressible string value repeated repeated repeated", []any{int64(1), int64(2)}}
	for _, v := range values {
		require.NoError(t, enc.Encode(v))
	}
	require.NoError(t, enc.Close())

	dec := NewDecoder(path, WithDecompression(codec))
	for _, want := range values {
		got, err := dec.Decode()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := dec.Decode()
	require.ErrorIs(t, err, errs.ErrEOF)
}

func TestEncoderWritesEncodedValueToFile(t *testing.T) {
	path := tempPath(t)

	enc := NewEncoder(path)
	require.NoError(t, enc.Encode(int64(1)))
	require.NoError(t, enc.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestEncoderCloseIsIdempotentWhenNeverOpened(t *testing.T) {
	enc := NewEncoder(tempPath(t))
	require.NoError(t, enc.Close())
}

func TestDecoderCloseIsIdempotentWhenNeverOpened(t *testing.T) {
	dec := NewDecoder(tempPath(t))
	require.NoError(t, dec.Close())
}

func TestEncoderStrictKeysOption(t *testing.T) {
	path := tempPath(t)

	enc := NewEncoder(path, WithStrictKeys(true))
	err := enc.Encode(map[any]any{int64(1): "not a string key"})
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrKeyType) || errors.Is(err, errs.ErrKey))
}
