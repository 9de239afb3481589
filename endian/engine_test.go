package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckNative(t *testing.T) {
	result := CheckNative()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(t, binary.BigEndian, result)
	case 0x02:
		require.Equal(t, binary.LittleEndian, result)
	default:
		require.Failf(t.Name(), "unexpected byte value: %v", testBytes[0])
	}
}

func TestCheckNativeConsistency(t *testing.T) {
	first := CheckNative()
	for i := range 100 {
		result := CheckNative()
		if result != first {
			t.Errorf("CheckNative() returned inconsistent results: first=%v, iteration %d=%v", first, i, result)
		}
	}
}

func TestIsNativeLittleEndian(t *testing.T) {
	result := IsNativeLittleEndian()
	expected := CheckNative() == binary.LittleEndian
	require.Equal(t, expected, result)

	for range 10 {
		require.Equal(t, result, IsNativeLittleEndian())
	}
}

func TestWireIsAlwaysBigEndian(t *testing.T) {
	engine := Wire()

	require.Implements(t, (*Engine)(nil), engine)
	require.Equal(t, binary.BigEndian, engine)

	var testValue uint16 = 0x0102
	bytes := make([]byte, 2)
	engine.PutUint16(bytes, testValue)
	require.Equal(t, byte(0x01), bytes[0], "wire byte order always puts MSB first")
	require.Equal(t, byte(0x02), bytes[1])

	require.Equal(t, testValue, engine.Uint16(bytes))
}

func TestWireAppendRoundTrip(t *testing.T) {
	engine := Wire()

	var buf []byte
	buf = engine.AppendUint32(buf, 0x01020304)
	buf = engine.AppendUint64(buf, 0x0102030405060708)

	require.Equal(t, uint32(0x01020304), engine.Uint32(buf[:4]))
	require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf[4:]))
}
