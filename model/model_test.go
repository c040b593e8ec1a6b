package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassFromInt(t *testing.T) {
	tests := []struct {
		in   int
		want WordClass
	}{
		{0, Noun},
		{3, Adverb},
		{9, Name},
		{10, Unknown},
		{42, Unknown},
		{-1, Unknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassFromInt(tt.in), "ordinal %d", tt.in)
	}
}

func TestWordClass(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "noun", Noun.String())
		assert.Equal(t, "name", Name.String())
		assert.Equal(t, "unknown", Unknown.String())
		assert.Equal(t, "unknown", WordClass(200).String())
	})

	t.Run("Ordinal", func(t *testing.T) {
		assert.Equal(t, 1, Verb.Ordinal())
		assert.Equal(t, 10, Unknown.Ordinal())
		assert.Equal(t, 10, WordClass(200).Ordinal())
	})

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, Article.Valid())
		assert.False(t, Unknown.Valid())
	})

	t.Run("ClassNames", func(t *testing.T) {
		names := ClassNames()
		assert.Len(t, names, NumClasses)
		assert.Equal(t, "preposition", names[Preposition])

		names[0] = "changed"
		assert.Equal(t, "noun", ClassNames()[0])
	})

	t.Run("ParseClass", func(t *testing.T) {
		c, ok := ParseClass(" Interjection ")
		assert.True(t, ok)
		assert.Equal(t, Interjection, c)

		c, ok = ParseClass("gerund")
		assert.False(t, ok)
		assert.Equal(t, Unknown, c)
	})
}

func TestEntryEquality(t *testing.T) {
	a := Entry{Text: Span{Arena: ArenaLoaded, Offset: 0, Length: 3}, Class: Noun, Active: true}
	b := Entry{Text: Span{Arena: ArenaPending, Offset: 0, Length: 3}, Class: Noun, Active: true}

	// Same text in different arenas is a different entry.
	assert.NotEqual(t, a, b)
	assert.True(t, a == Entry{Text: a.Text, Class: Noun, Active: true})
	assert.Equal(t, uint64(3), a.Text.End())
	assert.Equal(t, "Span(pending:0+3)", b.Text.String())
}
