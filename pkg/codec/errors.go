// Package codec implements the SOME/IP TLV-aware payload serializer
// and deserializer (§4 of the payload format): primitive encoding,
// string transcoding, sequence and struct framing, and the top-level
// Encode/Decode entry points.
package codec

import "github.com/marmos91/someip/internal/wire"

// Kind categorizes an Error the same way internal/wire.Kind does;
// re-exported here so callers of this package never need to import
// internal/wire directly.
type Kind = wire.Kind

const (
	KindInvalidBool         = wire.KindInvalidBool
	KindInvalidEnumValue    = wire.KindInvalidEnumValue
	KindInvalidWireType     = wire.KindInvalidWireType
	KindCannotCodeString    = wire.KindCannotCodeString
	KindNotEnoughData       = wire.KindNotEnoughData
	KindTooMuchData         = wire.KindTooMuchData
	KindTooShort            = wire.KindTooShort
	KindTooLong             = wire.KindTooLong
	KindNotAllBytesConsumed = wire.KindNotAllBytesConsumed
	KindIoError             = wire.KindIoError
	KindCustom              = wire.KindCustom
)

// Error is the error type returned for every data error this package
// reports. Use KindOf to branch on the failure category.
type Error = wire.Error

// KindOf reports the Kind of err if it is, or wraps, an *Error.
func KindOf(err error) (Kind, bool) { return wire.KindOf(err) }
