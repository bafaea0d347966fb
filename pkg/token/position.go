package token

import "strconv"

// Position locates a token in a PHP source file.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, in bytes
	Offset int // 0-based byte offset
}

// String renders the position as "line:column", or "-" before the first line.
func (p Position) String() string {
	if p.Line < 1 {
		return "-"
	}
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
