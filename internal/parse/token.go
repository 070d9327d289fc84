// Package parse provides the line-level mechanics that sit beneath the TOON
// value parser: splitting a document into indent-tracked logical lines
// (Scanner) and splitting a single line's body into delimiter-separated
// fields honoring quotes (Split).
package parse

// Line is a single logical line of input, stripped of its line terminator
// and with its indentation measured in levels (not raw spaces).
type Line struct {
	Number  int    // 1-based source line number
	Indent  int    // indentation depth, in units of the configured indent size
	Column  int    // 1-based column of the first byte of Content
	Content string // line text after the indentation prefix
	Blank   bool   // true if Content is empty or all whitespace
}
