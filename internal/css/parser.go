package css

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/tailgen/internal/utility"
)

// parserState maintains context while parsing CSS
type parserState struct {
	lexer  *csslex.Lexer
	media  string // current @media condition
	blocks []Block
}

// ParseStylesheet parses CSS text into blocks. Selectors and values are kept
// as written, so output rendered by this package round-trips exactly.
// Only style rules and @media blocks are kept; other at-rules are skipped.
func ParseStylesheet(content string) ([]Block, error) {
	state := &parserState{
		lexer: csslex.NewLexer(parse.NewInputString(content)),
	}

	if err := state.parseRules(false); err != nil {
		return nil, err
	}
	return state.blocks, nil
}

// parseRules reads rules until EOF, or until the closing brace of the
// enclosing @media block when nested is true.
func (s *parserState) parseRules(nested bool) error {
	var selector strings.Builder

	for {
		tt, text := s.lexer.Next()

		switch tt {
		case csslex.ErrorToken:
			if err := s.lexer.Err(); err != nil && err != io.EOF {
				return fmt.Errorf("parse stylesheet: %w", err)
			}
			if nested {
				return fmt.Errorf("parse stylesheet: unterminated @media %s", s.media)
			}
			return nil

		case csslex.CommentToken:
			continue

		case csslex.AtKeywordToken:
			if selector.Len() > 0 {
				selector.Write(text)
				continue
			}
			if strings.EqualFold(string(text), "@media") && !nested {
				if err := s.handleMedia(); err != nil {
					return err
				}
				continue
			}
			s.skipAtRule()

		case csslex.RightBraceToken:
			if nested {
				return nil
			}

		case csslex.LeftBraceToken:
			// Found the declaration block
			decls := s.extractDeclarations()
			s.blocks = append(s.blocks, Block{
				Selector: strings.TrimSpace(selector.String()),
				Media:    s.media,
				Decls:    decls,
			})
			selector.Reset()

		case csslex.WhitespaceToken:
			if selector.Len() > 0 {
				selector.WriteByte(' ')
			}

		default:
			selector.Write(text)
		}
	}
}

// handleMedia reads the media condition and the rules inside it
func (s *parserState) handleMedia() error {
	var query strings.Builder

	for {
		tt, text := s.lexer.Next()
		if tt == csslex.ErrorToken {
			return fmt.Errorf("parse stylesheet: unterminated @media prelude")
		}
		if tt == csslex.LeftBraceToken {
			break
		}
		if tt == csslex.WhitespaceToken {
			query.WriteByte(' ')
			continue
		}
		query.Write(text)
	}

	s.media = strings.TrimSpace(query.String())
	err := s.parseRules(true)
	s.media = ""
	return err
}

// skipAtRule consumes an unsupported at-rule: up to ';' or its whole block
func (s *parserState) skipAtRule() {
	depth := 0
	for {
		tt, _ := s.lexer.Next()
		switch tt {
		case csslex.ErrorToken:
			return
		case csslex.SemicolonToken:
			if depth == 0 {
				return
			}
		case csslex.LeftBraceToken:
			depth++
		case csslex.RightBraceToken:
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

// extractDeclarations reads property: value pairs until }
func (s *parserState) extractDeclarations() []utility.Declaration {
	var decls []utility.Declaration

	var currentProp string
	var currentVal strings.Builder
	sawColon := false

	flush := func() {
		if currentProp != "" && sawColon {
			decls = append(decls, utility.Declaration{
				Property: currentProp,
				Value:    strings.TrimSpace(currentVal.String()),
			})
		}
		currentProp = ""
		currentVal.Reset()
		sawColon = false
	}

	for {
		tt, text := s.lexer.Next()

		if tt == csslex.ErrorToken || tt == csslex.RightBraceToken {
			// Save last property
			flush()
			return decls
		}

		switch {
		case tt == csslex.CommentToken:
			continue
		case (tt == csslex.IdentToken || tt == csslex.CustomPropertyNameToken) && currentProp == "":
			// Start of property name
			currentProp = string(text)
		case tt == csslex.ColonToken && currentProp != "" && !sawColon:
			// Separator between property and value
			sawColon = true
		case tt == csslex.SemicolonToken:
			// End of declaration
			flush()
		case sawColon:
			// Part of the value
			currentVal.Write(text)
		}
	}
}
