package toon

import "fmt"

// ErrorKind classifies a toon Error into the four families Section 7 of the
// spec names.
type ErrorKind int

const (
	// ParsingError: unexpected token, unterminated string, invalid escape,
	// invalid number, unexpected EOF.
	KindParsingError ErrorKind = iota
	// ValidationError: strict-mode rejections (length mismatch, row-width
	// mismatch, bad indentation, duplicate key, blank line in array,
	// expansion conflict).
	KindValidationError
	// EncodingError: unsupported value shape, circular reference, duplicate
	// field name from a misbehaving schema layer.
	KindEncodingError
	// DecodingError: type mismatch against a target Go value, missing
	// required field.
	KindDecodingError
)

func (k ErrorKind) String() string {
	switch k {
	case KindParsingError:
		return "ParsingError"
	case KindValidationError:
		return "ValidationError"
	case KindEncodingError:
		return "EncodingError"
	case KindDecodingError:
		return "DecodingError"
	default:
		return "Error"
	}
}

// Parsing error codes.
const (
	ErrUnexpectedToken = 100 + iota
	ErrUnterminatedString
	ErrInvalidEscape
	ErrInvalidNumber
	ErrUnexpectedEOF
)

// Validation error codes (strict mode).
const (
	ErrArrayLengthMismatch = 200 + iota
	ErrTabularRowWidth
	ErrInvalidIndentation
	ErrDuplicateKey
	ErrBlankLineInArray
	ErrExpansionConflict
)

// Encoding error codes.
const (
	ErrUnsupportedValue = 300 + iota
	ErrCircularReference
	ErrDuplicateField
	// ErrInvalidEncoderOption reports an erroneous call to an EncodeOption
	// constructor (e.g. indentSize out of range), mirroring the teacher's
	// ErrCodeUsage: "erroneous API call" rather than a problem with a value
	// being encoded.
	ErrInvalidEncoderOption
)

// Decoding error codes.
const (
	ErrTypeMismatch = 400 + iota
	ErrMissingField
	// ErrInvalidDecoderOption reports an erroneous call to a DecodeOption
	// constructor, the decode-side analog of ErrInvalidEncoderOption.
	ErrInvalidDecoderOption
)

// Error is the single error type the codec returns. It carries a kind, a
// numeric code within that kind, and — whenever the error originates in
// parsing or validating a specific line — a 1-based Line/Column location
// (Section 7).
type Error struct {
	Kind         ErrorKind
	Code         int
	Line, Column int
	msg          string
	wrapped      error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("toon: %s: [%d,%d] %s", e.Kind, e.Line, e.Column, e.msg)
	}
	return fmt.Sprintf("toon: %s: %s", e.Kind, e.msg)
}

// Unwrap returns the underlying error, if any, allowing errors.Is/As to see
// through a toon Error to its cause.
func (e *Error) Unwrap() error { return e.wrapped }

func newError(kind ErrorKind, code int, msg string) *Error {
	return &Error{Kind: kind, Code: code, msg: msg}
}

func newErrorAt(kind ErrorKind, code, line, column int, msg string) *Error {
	return &Error{Kind: kind, Code: code, Line: line, Column: column, msg: msg}
}

func wrapError(kind ErrorKind, code int, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, msg: msg, wrapped: cause}
}

func parsingErrorf(line, column int, code int, format string, args ...any) *Error {
	return newErrorAt(KindParsingError, code, line, column, fmt.Sprintf(format, args...))
}

func validationErrorf(line, column int, code int, format string, args ...any) *Error {
	return newErrorAt(KindValidationError, code, line, column, fmt.Sprintf(format, args...))
}

func encodingErrorf(format string, args ...any) *Error {
	return newError(KindEncodingError, ErrUnsupportedValue, fmt.Sprintf(format, args...))
}

func encodingErrorCodef(code int, format string, args ...any) *Error {
	return newError(KindEncodingError, code, fmt.Sprintf(format, args...))
}

func decodingErrorf(code int, format string, args ...any) *Error {
	return newError(KindDecodingError, code, fmt.Sprintf(format, args...))
}
