package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"
)

// AssemblyError reports a block that cannot be serialized safely, or a
// failure writing the output. It aborts the current build pass only.
type AssemblyError struct {
	Token    string // originating token, if known
	Property string
	Err      error
}

func (e *AssemblyError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("assemble css: %v", e.Err)
	}
	return fmt.Sprintf("assemble css: %s (%s): %v", e.Token, e.Property, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// ErrUnsafeValue is wrapped by AssemblyError when a value would break out of
// its declaration block.
var ErrUnsafeValue = errors.New("value is not a single CSS declaration value")

// Renderer serializes blocks to CSS text.
type Renderer interface {
	Render(w io.Writer, blocks []Block) error
}

// Render validates blocks and renders them into a buffer. Nothing is returned
// on error, so callers never see partial output.
func Render(blocks []Block, r Renderer) ([]byte, error) {
	if r == nil {
		r = PrettyRenderer{}
	}

	for _, b := range blocks {
		for _, d := range b.Decls {
			if err := ValidateValue(d.Value); err != nil {
				return nil, &AssemblyError{Token: b.Token, Property: d.Property, Err: err}
			}
		}
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, blocks); err != nil {
		return nil, &AssemblyError{Err: err}
	}
	return buf.Bytes(), nil
}

// ValidateValue lexes a declaration value and rejects tokens that would end
// the declaration or block early. Empty values are allowed.
func ValidateValue(value string) error {
	lexer := csslex.NewLexer(parse.NewInputString(value))
	for {
		tt, text := lexer.Next()
		switch tt {
		case csslex.ErrorToken:
			if err := lexer.Err(); err != nil && err != io.EOF {
				return fmt.Errorf("%w: %v", ErrUnsafeValue, err)
			}
			return nil
		case csslex.SemicolonToken, csslex.LeftBraceToken, csslex.RightBraceToken,
			csslex.BadStringToken, csslex.BadURLToken, csslex.CDOToken, csslex.CDCToken:
			return fmt.Errorf("%w: unexpected %q", ErrUnsafeValue, text)
		}
	}
}

// PrettyRenderer writes indented, human-readable CSS.
type PrettyRenderer struct {
	Indent string // defaults to two spaces
}

// Render implements Renderer.
func (p PrettyRenderer) Render(w io.Writer, blocks []Block) error {
	indent := p.Indent
	if indent == "" {
		indent = "  "
	}

	ew := &errWriter{w: w}
	for i, group := range groupByMedia(blocks) {
		if i > 0 {
			ew.printf("\n")
		}

		prefix := ""
		if group.media != "" {
			ew.printf("@media %s {\n", group.media)
			prefix = indent
		}

		for j, b := range group.blocks {
			if j > 0 {
				ew.printf("\n")
			}
			ew.printf("%s%s {\n", prefix, b.Selector)
			for _, d := range b.Decls {
				ew.printf("%s%s%s: %s;\n", prefix, indent, d.Property, d.Value)
			}
			ew.printf("%s}\n", prefix)
		}

		if group.media != "" {
			ew.printf("}\n")
		}
	}
	return ew.err
}

// CompactRenderer writes CSS without optional whitespace.
type CompactRenderer struct{}

// Render implements Renderer.
func (CompactRenderer) Render(w io.Writer, blocks []Block) error {
	ew := &errWriter{w: w}
	for _, group := range groupByMedia(blocks) {
		if group.media != "" {
			ew.printf("@media %s{", group.media)
		}
		for _, b := range group.blocks {
			parts := make([]string, len(b.Decls))
			for i, d := range b.Decls {
				parts[i] = d.Property + ":" + d.Value
			}
			ew.printf("%s{%s}", b.Selector, strings.Join(parts, ";"))
		}
		if group.media != "" {
			ew.printf("}")
		}
	}
	if len(blocks) > 0 {
		ew.printf("\n")
	}
	return ew.err
}

type mediaGroup struct {
	media  string
	blocks []Block
}

// groupByMedia splits consecutive blocks sharing a media condition
func groupByMedia(blocks []Block) []mediaGroup {
	var groups []mediaGroup
	for _, b := range blocks {
		if n := len(groups); n > 0 && groups[n-1].media == b.Media {
			groups[n-1].blocks = append(groups[n-1].blocks, b)
			continue
		}
		groups = append(groups, mediaGroup{media: b.Media, blocks: []Block{b}})
	}
	return groups
}

// errWriter keeps the first write error and skips later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
