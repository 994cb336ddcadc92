// Package wire implements the low-level pieces of the SOME/IP payload
// codec that do not depend on the schema model: length field width
// selection, TLV tag packing, and the shared error taxonomy.
//
// Everything here is a leaf dependency. pkg/schema and pkg/codec build
// on top of it; wire never imports either.
package wire

import "fmt"

// Kind categorizes a codec Error the way the teacher's StoreError.Code
// categorizes repository errors: callers switch on Kind, not on the
// formatted message.
type Kind int

const (
	// KindInvalidBool: strict-bool mode encountered a byte > 1.
	KindInvalidBool Kind = iota
	// KindInvalidEnumValue: a raw primitive did not match any enum variant.
	KindInvalidEnumValue
	// KindInvalidWireType: a TLV tag's wire-type is incompatible with the schema.
	KindInvalidWireType
	// KindCannotCodeString: string encode/decode failed (invalid UTF-8/16, BOM, terminator).
	KindCannotCodeString
	// KindNotEnoughData: a string or sequence had fewer bytes/elements than its minimum.
	KindNotEnoughData
	// KindTooMuchData: a string or sequence exceeded its maximum under policy Fail.
	KindTooMuchData
	// KindTooShort: a read ran past the end of the input or a length section.
	KindTooShort
	// KindTooLong: a non-TLV value's encoded length exceeds its configured length field width.
	KindTooLong
	// KindNotAllBytesConsumed: a closed length section, or the top-level input, had leftover bytes.
	KindNotAllBytesConsumed
	// KindIoError: the underlying byte source failed.
	KindIoError
	// KindCustom: a visitor-supplied error.
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindInvalidBool:
		return "InvalidBool"
	case KindInvalidEnumValue:
		return "InvalidEnumValue"
	case KindInvalidWireType:
		return "InvalidWireType"
	case KindCannotCodeString:
		return "CannotCodeString"
	case KindNotEnoughData:
		return "NotEnoughData"
	case KindTooMuchData:
		return "TooMuchData"
	case KindTooShort:
		return "TooShort"
	case KindTooLong:
		return "TooLong"
	case KindNotAllBytesConsumed:
		return "NotAllBytesConsumed"
	case KindIoError:
		return "IoError"
	case KindCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by the codec for every data
// error in §7 of the payload format. Schema-contract violations (a
// caller bug, not a wire-format problem) are reported via panic instead,
// matching the teacher's split between StoreError values and panics on
// programmer error.
type Error struct {
	Kind Kind

	// Byte, or the invalid bool byte.
	Byte byte
	// EnumValue/EnumName describe KindInvalidEnumValue.
	EnumValue string
	EnumName  string
	// ExpectedWireType/ActualWireType describe KindInvalidWireType.
	ExpectedWireType string
	ActualWireType   string
	// Reason is the detail string for KindCannotCodeString and KindCustom.
	Reason string
	// Min/Max/Actual describe KindNotEnoughData, KindTooMuchData.
	Min    int
	Max    int
	Actual int
	// LengthFieldWidth/ActualLength describe KindTooLong.
	LengthFieldWidth int
	ActualLength     int
	// Remaining describes KindNotAllBytesConsumed.
	Remaining int
	// Cause wraps the underlying error for KindIoError.
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidBool:
		return fmt.Sprintf("someip: invalid value for bool: %d", e.Byte)
	case KindInvalidEnumValue:
		return fmt.Sprintf("someip: invalid enum value %s for enum %s", e.EnumValue, e.EnumName)
	case KindInvalidWireType:
		return fmt.Sprintf("someip: invalid wire type, expected %s but got %s", e.ExpectedWireType, e.ActualWireType)
	case KindCannotCodeString:
		return fmt.Sprintf("someip: cannot en/decode string: %s", e.Reason)
	case KindNotEnoughData:
		return fmt.Sprintf("someip: not enough data, needed %d but got %d", e.Min, e.Actual)
	case KindTooMuchData:
		return fmt.Sprintf("someip: too much data, max %d but got %d", e.Max, e.Actual)
	case KindTooShort:
		return "someip: ran out of bytes before the end was reached"
	case KindTooLong:
		return fmt.Sprintf("someip: value of length %d does not fit in a %d-byte length field", e.ActualLength, e.LengthFieldWidth)
	case KindNotAllBytesConsumed:
		return fmt.Sprintf("someip: not all bytes were consumed, %d left over", e.Remaining)
	case KindIoError:
		return fmt.Sprintf("someip: io error: %v", e.Cause)
	case KindCustom:
		return "someip: " + e.Reason
	default:
		return "someip: unknown error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func InvalidBool(b byte) error { return &Error{Kind: KindInvalidBool, Byte: b} }

func InvalidEnumValue(value, name string) error {
	return &Error{Kind: KindInvalidEnumValue, EnumValue: value, EnumName: name}
}

func InvalidWireType(expected, actual string) error {
	return &Error{Kind: KindInvalidWireType, ExpectedWireType: expected, ActualWireType: actual}
}

func CannotCodeString(reason string) error {
	return &Error{Kind: KindCannotCodeString, Reason: reason}
}

func NotEnoughData(min, actual int) error {
	return &Error{Kind: KindNotEnoughData, Min: min, Actual: actual}
}

func TooMuchData(max, actual int) error {
	return &Error{Kind: KindTooMuchData, Max: max, Actual: actual}
}

func TooShort() error { return &Error{Kind: KindTooShort} }

func TooLong(actualLength, lengthFieldWidth int) error {
	return &Error{Kind: KindTooLong, ActualLength: actualLength, LengthFieldWidth: lengthFieldWidth}
}

func NotAllBytesConsumed(remaining int) error {
	return &Error{Kind: KindNotAllBytesConsumed, Remaining: remaining}
}

func IoError(cause error) error { return &Error{Kind: KindIoError, Cause: cause} }

func Custom(reason string) error { return &Error{Kind: KindCustom, Reason: reason} }

// KindOf reports the Kind of err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if as(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// as avoids importing errors.As into every caller that only needs KindOf.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
