package toon

// Delimiter identifies the character that separates values inside inline
// arrays and tabular rows (Section 3).
type Delimiter int

const (
	DelimiterComma Delimiter = iota
	DelimiterTab
	DelimiterPipe
)

// Rune returns the literal character this delimiter stands for.
func (d Delimiter) Rune() rune {
	switch d {
	case DelimiterTab:
		return '\t'
	case DelimiterPipe:
		return '|'
	default:
		return ','
	}
}

func (d Delimiter) String() string {
	switch d {
	case DelimiterComma:
		return "COMMA"
	case DelimiterTab:
		return "TAB"
	case DelimiterPipe:
		return "PIPE"
	default:
		return "UNKNOWN"
	}
}

func delimiterValid(d Delimiter) bool {
	return d == DelimiterComma || d == DelimiterTab || d == DelimiterPipe
}

// KeyFolding selects whether the encoder collapses single-field object
// chains into dotted keys (Section 4.7).
type KeyFolding int

const (
	KeyFoldingOff KeyFolding = iota
	KeyFoldingSafe
)

// Indentation bounds, per Section 3.
const (
	MinIndentSize     = 1
	MaxIndentSize     = 16
	DefaultIndentSize = 2
)

// UnboundedFlattenDepth is the sentinel flattenDepth meaning "no limit".
const UnboundedFlattenDepth = 0

// encoderConfig holds the resolved option set for an Encoder.
type encoderConfig struct {
	indentSize   int
	delimiter    Delimiter
	keyFolding   KeyFolding
	flattenDepth int
}

func defaultEncoderConfig() encoderConfig {
	return encoderConfig{
		indentSize:   DefaultIndentSize,
		delimiter:    DelimiterComma,
		keyFolding:   KeyFoldingOff,
		flattenDepth: UnboundedFlattenDepth,
	}
}

// EncodeOption mutates an Encoder's configuration at construction time.
type EncodeOption func(*encoderConfig) error

// WithIndentSize sets the number of spaces per indentation level. Valid
// range is 1..16.
func WithIndentSize(n int) EncodeOption {
	return func(c *encoderConfig) error {
		if n < MinIndentSize || n > MaxIndentSize {
			return encodingErrorCodef(ErrInvalidEncoderOption, "indentSize must be in range %d..%d, got %d", MinIndentSize, MaxIndentSize, n)
		}
		c.indentSize = n
		return nil
	}
}

// WithDelimiter sets the active delimiter for the document.
func WithDelimiter(d Delimiter) EncodeOption {
	return func(c *encoderConfig) error {
		if !delimiterValid(d) {
			return encodingErrorCodef(ErrInvalidEncoderOption, "invalid delimiter %v", d)
		}
		c.delimiter = d
		return nil
	}
}

// WithKeyFolding enables or disables key folding (Section 4.7).
func WithKeyFolding(k KeyFolding) EncodeOption {
	return func(c *encoderConfig) error {
		c.keyFolding = k
		return nil
	}
}

// WithFlattenDepth bounds the number of segments key folding may collapse
// into one dotted key. A non-positive value means unbounded.
func WithFlattenDepth(n int) EncodeOption {
	return func(c *encoderConfig) error {
		if n < 0 {
			n = UnboundedFlattenDepth
		}
		c.flattenDepth = n
		return nil
	}
}

// decoderConfig holds the resolved option set for a Decoder.
type decoderConfig struct {
	strict        bool
	delimiter     Delimiter
	indentSize    int
	pathExpansion bool
}

func defaultDecoderConfig() decoderConfig {
	return decoderConfig{
		strict:        true,
		delimiter:     DelimiterComma,
		indentSize:    DefaultIndentSize,
		pathExpansion: false,
	}
}

// DecodeOption mutates a Decoder's configuration at construction time.
type DecodeOption func(*decoderConfig) error

// WithStrict toggles strict-mode validation (length mismatches, blank
// lines inside arrays, duplicate keys, expansion conflicts). Defaults to
// true.
func WithStrict(strict bool) DecodeOption {
	return func(c *decoderConfig) error {
		c.strict = strict
		return nil
	}
}

// WithDecodeDelimiter sets the document's default active delimiter.
func WithDecodeDelimiter(d Delimiter) DecodeOption {
	return func(c *decoderConfig) error {
		if !delimiterValid(d) {
			return decodingErrorf(ErrInvalidDecoderOption, "invalid delimiter %v", d)
		}
		c.delimiter = d
		return nil
	}
}

// WithDecodeIndentSize sets the expected number of spaces per indentation
// level. Valid range is 1..16.
func WithDecodeIndentSize(n int) DecodeOption {
	return func(c *decoderConfig) error {
		if n < MinIndentSize || n > MaxIndentSize {
			return decodingErrorf(ErrInvalidDecoderOption, "indentSize must be in range %d..%d, got %d", MinIndentSize, MaxIndentSize, n)
		}
		c.indentSize = n
		return nil
	}
}

// WithPathExpansion enables decode-time expansion of dotted object keys
// into nested objects (Section 4.7).
func WithPathExpansion(enabled bool) DecodeOption {
	return func(c *decoderConfig) error {
		c.pathExpansion = enabled
		return nil
	}
}
