// Package codec implements the recursive encoder and decoder cores on top
// of buffer.EncBuffer/DecBuffer and wire's header constants.
package codec

// Ext is the host-level representation of a MessagePack ext value: a
// signed 8-bit type id and its byte payload. Both the encoder's built-in
// dispatch and the ext-table fallback produce/consume this type.
type Ext struct {
	ID   int8
	Data []byte
}
