package shell

import (
	"strings"

	"github.com/manav03panchal/mapundo/internal/errors"
)

// tokenize splits a line into words. Single or double quotes group words;
// an unquoted '#' at the start of a word ends the line.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false
	quoteChar := rune(0)

	for _, r := range line {
		if quoteChar != 0 {
			if r == quoteChar {
				quoteChar = 0
				continue
			}
			current.WriteRune(r)
			continue
		}

		switch {
		case r == '"' || r == '\'':
			quoteChar = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		case r == '#' && !inToken:
			return tokens, nil
		default:
			current.WriteRune(r)
			inToken = true
		}
	}

	if quoteChar != 0 {
		err := errors.UserErrorFrom(errors.ErrInvalidArgument, "line", line)
		err.Message = "unterminated quote"
		err.Suggestion = "Close the quote with " + string(quoteChar)
		return nil, err
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
