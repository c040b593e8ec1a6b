package model

import "strings"

// WordClass is the grammatical class of a dictionary word.
//
// The numeric values are the ordinals written to dictionary files and must not
// be reordered.
type WordClass uint8

const (
	// Noun names an object, creature, place, action, quality, state or idea.
	Noun WordClass = iota
	// Verb conveys an action, an occurrence, or a state of being.
	Verb
	// Adjective modifies a noun or noun phrase.
	Adjective
	// Adverb modifies a verb, adjective, adverb, clause or sentence.
	Adverb
	// Pronoun substitutes for a noun or noun phrase.
	Pronoun
	// Preposition expresses spatial or temporal relations.
	Preposition
	// Conjunction connects words, phrases, or clauses.
	Conjunction
	// Interjection is an utterance expressing a spontaneous feeling.
	Interjection
	// Article marks the identifiability of a noun phrase.
	Article
	// Name is the name of a being.
	Name
	// Unknown is the sentinel for out-of-range ordinals.
	Unknown
)

// NumClasses is the number of real word classes (Unknown excluded).
const NumClasses = int(Unknown)

var classNames = [...]string{
	Noun:         "noun",
	Verb:         "verb",
	Adjective:    "adjective",
	Adverb:       "adverb",
	Pronoun:      "pronoun",
	Preposition:  "preposition",
	Conjunction:  "conjunction",
	Interjection: "interjection",
	Article:      "article",
	Name:         "name",
}

// ClassFromInt decodes a file ordinal. Values outside [0, NumClasses) decode to
// Unknown instead of failing.
func ClassFromInt(i int) WordClass {
	if i < 0 || i >= NumClasses {
		return Unknown
	}
	return WordClass(i)
}

// Ordinal returns the value written to dictionary files.
func (c WordClass) Ordinal() int {
	if c > Unknown {
		return int(Unknown)
	}
	return int(c)
}

// Valid reports whether c is a real class rather than the sentinel.
func (c WordClass) Valid() bool {
	return int(c) < NumClasses
}

// String returns the display name, e.g. "noun".
func (c WordClass) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return classNames[c]
}

// ClassNames returns the display names indexed by ordinal, for presenting
// choices to a user. The returned slice is a copy.
func ClassNames() []string {
	names := make([]string, NumClasses)
	copy(names, classNames[:])
	return names
}

// ParseClass resolves a display name (case-insensitive) to its class.
func ParseClass(name string) (WordClass, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range classNames {
		if n == name {
			return WordClass(i), true
		}
	}
	return Unknown, false
}
