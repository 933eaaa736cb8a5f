package semantic

import (
	"strings"
	"unicode"
)

// stopWords are dropped from all tokenized text. The list covers common
// English function words plus a few terms too generic to discriminate.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"were": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "this": true, "that": true, "these": true, "those": true,
	"with": true, "from": true, "into": true, "onto": true, "over": true,
	"under": true, "about": true, "after": true, "before": true,
	"will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "must": true, "shall": true, "can": true,
	"not": true, "but": true, "nor": true, "all": true, "any": true,
	"each": true, "few": true, "more": true, "most": true, "other": true,
	"some": true, "such": true, "only": true, "own": true, "same": true,
	"than": true, "too": true, "very": true, "just": true, "also": true,
	"its": true, "his": true, "her": true, "their": true, "our": true,
	"your": true, "you": true, "they": true, "them": true, "she": true,
	"him": true, "who": true, "whom": true, "which": true, "what": true,
	"when": true, "where": true, "why": true, "how": true,
	"does": true, "did": true, "doing": true, "done": true,
}

// Tokenize lowercases text, splits on non-alphanumeric runes, and drops
// stop words and tokens shorter than three characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenSet returns the unique tokens of a text.
func TokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range Tokenize(text) {
		set[t] = true
	}
	return set
}

// terms produces the unigram+bigram term list used by the vectorizer.
func terms(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
