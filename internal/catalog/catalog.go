// Package catalog holds the fixed tables the bot answers from: the popular-token
// menu, FAQ entries, greeting words and reply texts. A Catalog is built once at
// startup and never mutated afterwards.
package catalog

import (
	"strings"
)

// Token is one entry of the popular-token menu.
type Token struct {
	Label string `yaml:"label"`
	ID    string `yaml:"id"`
}

// FAQEntry is a static question/answer pair.
type FAQEntry struct {
	ID       string `yaml:"id"`
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Catalog is read-only after construction; accessors hand out copies.
type Catalog struct {
	tokens    []Token
	faq       []FAQEntry
	faqByID   map[string]FAQEntry
	greetings map[string]struct{}
	farewells map[string]struct{}
	messages  Messages
}

// New builds a catalog; empty inputs fall back to the built-in tables.
func New(tokens []Token, faq []FAQEntry, greetings, farewells []string, msgs Messages) *Catalog {
	if len(tokens) == 0 {
		tokens = DefaultTokens()
	}
	if len(faq) == 0 {
		faq = DefaultFAQ()
	}
	if len(greetings) == 0 {
		greetings = DefaultGreetings()
	}
	if len(farewells) == 0 {
		farewells = DefaultFarewells()
	}
	c := &Catalog{
		tokens:    append([]Token(nil), tokens...),
		faq:       append([]FAQEntry(nil), faq...),
		faqByID:   make(map[string]FAQEntry, len(faq)),
		greetings: wordSet(greetings),
		farewells: wordSet(farewells),
		messages:  msgs.withDefaults(),
	}
	for _, entry := range c.faq {
		c.faqByID[entry.ID] = entry
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(nil, nil, nil, nil, Messages{})
}

func wordSet(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}

func (c *Catalog) Tokens() []Token {
	return append([]Token(nil), c.tokens...)
}

func (c *Catalog) FAQ() []FAQEntry {
	return append([]FAQEntry(nil), c.faq...)
}

// LookupFAQ finds an FAQ entry by id.
func (c *Catalog) LookupFAQ(id string) (FAQEntry, bool) {
	entry, ok := c.faqByID[id]
	return entry, ok
}

func (c *Catalog) Messages() Messages {
	return c.messages
}

// IsGreeting matches the whole message case-insensitively.
func (c *Catalog) IsGreeting(text string) bool {
	_, ok := c.greetings[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

func (c *Catalog) IsFarewell(text string) bool {
	_, ok := c.farewells[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
