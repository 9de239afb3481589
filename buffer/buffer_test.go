package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatsInitialMinima(t *testing.T) {
	s := NewStats()
	require.Equal(t, ExtraAllocMin, s.Predict(0))
}

func TestStatsPredictWithItems(t *testing.T) {
	s := NewStats()
	require.Equal(t, ExtraAllocMin+3*ItemAllocMin, s.Predict(3))
}

func TestBiasedAverageCapsGrowthAtTwoX(t *testing.T) {
	require.Equal(t, uint64(200), biasedAverage(100, 10000))
	require.Equal(t, uint64((2*100+150)/3), biasedAverage(100, 150))
}

func TestStatsUpdateClampsToMinimum(t *testing.T) {
	s := NewStats()
	s.Update(1, 1) // much smaller than the minimum
	require.GreaterOrEqual(t, s.Predict(0), ExtraAllocMin)
}

func TestStatsConverges(t *testing.T) {
	s := NewStats()
	for range 50 {
		s.Update(1000, 10)
	}

	// After repeated identical encodes, the prediction should be close to
	// (within 2x of) the actual size.
	predicted := s.Predict(10)
	require.LessOrEqual(t, predicted, 1000*2)
	require.GreaterOrEqual(t, predicted, 1000/2)
}

func TestEncBufferGrowPreservesContent(t *testing.T) {
	b := NewEncBuffer(NewStats(), nil, false)
	b.Prepare(0)

	for i := range 1000 {
		b.WriteByte(byte(i))
	}

	out := b.Finish()
	require.Len(t, out, 1000)
	for i, v := range out {
		require.Equal(t, byte(i), v)
	}
}

func TestEncBufferWrite(t *testing.T) {
	b := NewEncBuffer(NewStats(), nil, false)
	b.Prepare(0)
	b.Write([]byte("hello"))
	b.Write([]byte(" world"))
	require.Equal(t, "hello world", string(b.Finish()))
}

func TestEncBufferReserve(t *testing.T) {
	b := NewEncBuffer(NewStats(), nil, false)
	b.Prepare(0)
	dst := b.Reserve(4)
	copy(dst, []byte{1, 2, 3, 4})
	require.Equal(t, []byte{1, 2, 3, 4}, b.Finish())
}

func TestCheckSize(t *testing.T) {
	require.NoError(t, CheckSize("str", 0xFFFFFFFF))
	require.Error(t, CheckSize("str", 0x100000000))
}

func TestDecBufferReadByteAndN(t *testing.T) {
	d := NewDecBuffer([]byte{1, 2, 3, 4, 5}, nil, false)

	b, err := d.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(1), b)

	rest, err := d.ReadN(3)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3, 4}, rest)

	require.Equal(t, 1, d.Remaining())
	require.False(t, d.AtEnd())

	_, err = d.ReadByte()
	require.NoError(t, err)
	require.True(t, d.AtEnd())
}

func TestDecBufferOverreadWithoutRefillerFails(t *testing.T) {
	d := NewDecBuffer([]byte{1, 2}, nil, false)
	_, err := d.ReadN(10)
	require.Error(t, err)
}

type stubRefiller struct {
	calls int
	data  []byte
}

func (r *stubRefiller) Refill(b *DecBuffer, need int) error {
	r.calls++
	b.Reset(r.data, 0, len(r.data))

	return nil
}

func TestDecBufferOverreadCallsRefiller(t *testing.T) {
	d := NewDecBuffer([]byte{}, nil, false)
	stub := &stubRefiller{data: []byte{9, 9, 9}}
	d.SetRefiller(stub)

	got, err := d.ReadN(3)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 9}, got)
	require.Equal(t, 1, stub.calls)
}

func TestDecBufferPeekDoesNotAdvance(t *testing.T) {
	d := NewDecBuffer([]byte{7, 8}, nil, false)
	b, err := d.PeekByte()
	require.NoError(t, err)
	require.Equal(t, byte(7), b)
	require.Equal(t, 0, d.Cursor())
}
