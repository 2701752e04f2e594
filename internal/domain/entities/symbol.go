package entities

import (
	"fmt"

	"eventbot/pkg/emoji"
)

type SymbolKind int

const (
	SymbolBuiltin SymbolKind = iota
	SymbolCustom
)

// Symbol is a reaction marker: either a unicode emoji or a custom emoji of the guild.
type Symbol struct {
	Kind SymbolKind
	Code string // unicode emoji, builtin only
	ID   string // custom only
	Name string // custom only
}

// Builtin returns the symbol for a unicode emoji. Variation selectors are stripped.
func Builtin(code string) Symbol {
	return Symbol{Kind: SymbolBuiltin, Code: emoji.Clean(code)}
}

// Custom returns the symbol for a guild custom emoji.
func Custom(id, name string) Symbol {
	return Symbol{Kind: SymbolCustom, ID: id, Name: name}
}

// Reaction returns the form expected by the Discord reaction endpoints.
func (s Symbol) Reaction() string {
	if s.Kind == SymbolCustom {
		return fmt.Sprintf("%s:%s", s.Name, s.ID)
	}
	return s.Code
}

// Mention returns the form used inside message content and embeds.
func (s Symbol) Mention() string {
	if s.Kind == SymbolCustom {
		return fmt.Sprintf("<:%s:%s>", s.Name, s.ID)
	}
	return s.Code
}

func (s Symbol) Equal(o Symbol) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind == SymbolCustom {
		return s.ID == o.ID
	}
	return emoji.Clean(s.Code) == emoji.Clean(o.Code)
}

// Is reports whether s is the builtin emoji code.
func (s Symbol) Is(code string) bool {
	return s.Kind == SymbolBuiltin && emoji.Clean(s.Code) == emoji.Clean(code)
}

// Number returns the 1-based number of a numbered marker, 0 otherwise.
func (s Symbol) Number() int {
	if s.Kind != SymbolBuiltin {
		return 0
	}
	return emoji.NumberIndex(s.Code)
}

// NumberSymbol returns the numbered marker for n (1-based).
func NumberSymbol(n int) (Symbol, bool) {
	code, ok := emoji.Number(n)
	if !ok {
		return Symbol{}, false
	}
	return Builtin(code), true
}
