// Package endian provides byte-order utilities for the codec's wire layer.
//
// It extends Go's standard encoding/binary package by combining ByteOrder
// and AppendByteOrder into a single Engine interface, so call sites can use
// the allocation-free Append* methods instead of round-tripping a value
// through a scratch array.
//
// MessagePack mandates big-endian on the wire: every multi-byte size field
// and every numeric payload is big-endian regardless of host byte order.
// Wire() returns exactly that engine; unlike a format that lets a caller
// pick LittleEndian or BigEndian per value, this codec never exposes a
// choice of wire byte order.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface, satisfied by binary.LittleEndian and binary.BigEndian.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Wire returns the byte-order engine used for every MessagePack header,
// size field, and numeric payload.
func Wire() Engine {
	return binary.BigEndian
}

// CheckNative uses a fixed integer value to determine the host's byte order.
func CheckNative() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckNative() == binary.LittleEndian
}
