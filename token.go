package kapsule

import "github.com/kapsule-di/kapsule/internal/atom"

// Token is an indirect, collision-safe identity for an injectable. It
// wraps exactly one injectable plus an optional description and always
// resolves to a process-wide unique atom, so two same-named types can be
// kept apart by binding them through tokens with different descriptions.
//
// Two tokens with the same description deliberately collide on the same
// atom (last bind wins); this lets unrelated types share one binding slot.
// A token never collides with a plain string key, even one equal to its
// description.
//
// Tokens are immutable after construction.
type Token struct {
	injectable  any
	description string
}

// NewToken wraps injectable in a Token. When a description is given it
// keys the token's atom; otherwise the atom is keyed by the wrapped
// injectable's derived name.
func NewToken(injectable any, description ...string) Token {
	t := Token{injectable: injectable}
	if len(description) > 0 {
		t.description = description[0]
	}
	return t
}

// Injectable returns the wrapped injectable.
func (t Token) Injectable() any {
	return t.injectable
}

// Description returns the explicit description, or "" when the token keys
// off the wrapped injectable's name.
func (t Token) Description() string {
	return t.description
}

// resolveKey maps the token to its process-wide atom.
func (t Token) resolveKey() (Key, error) {
	description := t.description
	if description == "" {
		key, err := ResolveKey(t.injectable)
		if err != nil {
			return "", err
		}
		description = string(key)
	}
	return Key(atom.For(description)), nil
}
