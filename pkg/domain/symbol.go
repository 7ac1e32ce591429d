package domain

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// EpsilonLabel is the printable label of the epsilon marker.
const EpsilonLabel = "ε"

// Symbol is a single input-alphabet character or the epsilon marker.
// The zero value is not a valid character symbol; use Char or Epsilon.
type Symbol struct {
	r       rune
	epsilon bool
}

// Epsilon is the distinguished "no symbol" label of epsilon transitions.
var Epsilon = Symbol{epsilon: true}

// Char returns the symbol for a single character.
func Char(r rune) Symbol {
	return Symbol{r: r}
}

// IsEpsilon reports whether s is the epsilon marker.
func (s Symbol) IsEpsilon() bool {
	return s.epsilon
}

// Rune returns the character carried by s. It is meaningless for epsilon.
func (s Symbol) Rune() rune {
	return s.r
}

// Matches reports whether s consumes the character r.
// Epsilon never matches an input character.
func (s Symbol) Matches(r rune) bool {
	return !s.epsilon && s.r == r
}

func (s Symbol) String() string {
	if s.epsilon {
		return EpsilonLabel
	}
	return string(s.r)
}

// MarshalJSON encodes epsilon as null and characters as one-rune strings.
func (s Symbol) MarshalJSON() ([]byte, error) {
	if s.epsilon {
		return []byte("null"), nil
	}
	return json.Marshal(string(s.r))
}

// UnmarshalJSON accepts null (epsilon) or a one-rune string.
func (s *Symbol) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Epsilon
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("symbol must be a string or null: %w", err)
	}
	if utf8.RuneCountInString(str) != 1 {
		return fmt.Errorf("symbol must be exactly one character, got %q", str)
	}
	r, _ := utf8.DecodeRuneInString(str)
	*s = Char(r)
	return nil
}

// MarshalYAML renders epsilon as the ε label.
func (s Symbol) MarshalYAML() (any, error) {
	return s.String(), nil
}
