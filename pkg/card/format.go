package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyDelimiter indicates a wrap request without a break delimiter.
var ErrEmptyDelimiter = errors.New("card: empty break delimiter")

// OverflowError reports text that cannot be broken to fit the line width.
type OverflowError struct {
	Token string
	Width int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("card: %q cannot be broken to fit %d columns", e.Token, e.Width)
}

// Format controls the physical layout of cards.
type Format struct {
	Width       int    `yaml:"width" json:"width"`
	Marker      string `yaml:"comment_marker" json:"comment_marker"`
	CommentMark string `yaml:"comment_mark" json:"comment_mark"`
	Indent      int    `yaml:"indent" json:"indent"`
}

// DefaultFormat is the MCNP6 layout: 80 columns, "$" end-of-line comments,
// "c" comment lines and a nine-space continuation indent.
func DefaultFormat() Format {
	return Format{Width: 80, Marker: "$", CommentMark: "c", Indent: 9}
}

// WithDefaults fills zero fields from DefaultFormat.
func (f Format) WithDefaults() Format {
	d := DefaultFormat()
	if f.Width == 0 {
		f.Width = d.Width
	}
	if f.Marker == "" {
		f.Marker = d.Marker
	}
	if f.CommentMark == "" {
		f.CommentMark = d.CommentMark
	}
	if f.Indent == 0 {
		f.Indent = d.Indent
	}
	return f
}

func (f Format) indent() string {
	return strings.Repeat(" ", f.Indent)
}

// RightAlign appends the end-of-line comment so that it ends at the last
// column. An empty comment leaves content untouched.
func (f Format) RightAlign(content, comment string) string {
	if comment == "" {
		return content
	}
	tail := f.Marker + comment
	pad := f.Width - len(content) - len(tail)
	if pad < 1 {
		pad = 1
	}
	return content + strings.Repeat(" ", pad) + tail
}

// Wrap breaks text into physical lines no wider than f.Width. Content never
// runs into the last len(" "+f.Marker)+len(comment) columns. Each line
// carries the right-aligned comment, continuation lines start with the
// indent, and breaks happen only at the rightmost delim that fits. The
// delimiter at a break is consumed, so joining the pieces with delim gives
// back text.
func (f Format) Wrap(text, delim, comment string) ([]string, error) {
	if delim == "" {
		return nil, ErrEmptyDelimiter
	}
	// Room for " $" is kept even without a comment.
	budget := f.Width - len(" "+f.Marker) - len(comment)
	if budget <= f.Indent {
		return nil, &OverflowError{Token: comment, Width: f.Width}
	}

	var lines []string
	cur, prefix := text, 0
	for len(cur) > budget {
		window := cur[:min(len(cur), budget+len(delim))]
		i := strings.LastIndex(window, delim)
		if i <= prefix || strings.TrimSpace(cur[prefix:i]) == "" {
			return nil, &OverflowError{Token: firstToken(cur[prefix:]), Width: f.Width}
		}
		lines = append(lines, f.RightAlign(cur[:i], comment))
		cur = f.indent() + cur[i+len(delim):]
		prefix = f.Indent
	}
	return append(lines, f.RightAlign(cur, comment)), nil
}

func firstToken(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return s
}

// Comment returns a full-line comment.
func (f Format) Comment(text string) string {
	if text == "" {
		return f.CommentMark
	}
	return f.CommentMark + "  " + text
}

// Banner returns a section banner such as
// "c  ----------  CELL CARD  ----------  c" spanning the line width.
func (f Format) Banner(title string) string {
	inner := "  " + title + "  "
	dashes := f.Width - 2*len(f.CommentMark) - 4 - len(inner)
	if dashes < 6 {
		dashes = 6
	}
	left := dashes / 2
	return f.CommentMark + "  " + strings.Repeat("-", left) + inner +
		strings.Repeat("-", dashes-left) + "  " + f.CommentMark
}

// Number formats v in its shortest decimal form ("0", "-150", "1.25").
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Density formats a density so it always reads as a real ("-8.0").
func Density(v float64) string {
	s := Number(v)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Fraction formats a composition fraction in exponent form.
func Fraction(v float64) string {
	return strconv.FormatFloat(v, 'e', 6, 64)
}
