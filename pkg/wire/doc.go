// Package wire defines the on-region representation of a channel frame.
//
// Each direction of a channel owns one fixed-size buffer and one control
// byte. The buffer holds a single frame; the control byte says whether the
// frame is waiting to be consumed and carries a few metadata flags.
//
// # Control Byte
//
//	bit 0     dataPresent     frame waiting for the consumer
//	bit 1     endOfData       last frame of a chunked transfer
//	bit 2     lengthPrefixed  payload preceded by a 4-byte length
//	bit 3     aborted         producer failed the transfer
//	bits 4-7  sessionTag      free correlation field
//
// Only the producer of a direction sets dataPresent; only the consumer clears
// it, echoing every other bit back unchanged.
//
// # Framing
//
// Text framing copies the payload into the buffer and zero-pads the rest.
// One byte is reserved for the implicit terminator, and decoding stops at the
// first zero byte, so payloads with embedded zeros cannot be represented.
//
// Binary framing writes a 4-byte native-endian length before the payload and
// sets lengthPrefixed, which allows arbitrary byte values.
package wire
