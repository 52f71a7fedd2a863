package scraper

import (
	"strings"
	"unicode"
)

// stopwords is the standard English stopword list. Tokens with
// apostrophes never survive the alphabetic filter, but the full list is
// kept intact so the set matches its published source.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {},
	"against": {}, "all": {}, "am": {}, "an": {}, "and": {}, "any": {},
	"are": {}, "aren't": {}, "as": {}, "at": {}, "be": {}, "because": {},
	"been": {}, "before": {}, "being": {}, "below": {}, "between": {},
	"both": {}, "but": {}, "by": {}, "can't": {}, "cannot": {},
	"could": {}, "couldn't": {}, "did": {}, "didn't": {}, "do": {},
	"does": {}, "doesn't": {}, "doing": {}, "don't": {}, "down": {},
	"during": {}, "each": {}, "few": {}, "for": {}, "from": {},
	"further": {}, "had": {}, "hadn't": {}, "has": {}, "hasn't": {},
	"have": {}, "haven't": {}, "having": {}, "he": {}, "he'd": {},
	"he'll": {}, "he's": {}, "her": {}, "here": {}, "here's": {},
	"hers": {}, "herself": {}, "him": {}, "himself": {}, "his": {},
	"how": {}, "how's": {}, "i": {}, "i'd": {}, "i'll": {}, "i'm": {},
	"i've": {}, "if": {}, "in": {}, "into": {}, "is": {}, "isn't": {},
	"it": {}, "it's": {}, "its": {}, "itself": {}, "let's": {}, "me": {},
	"more": {}, "most": {}, "mustn't": {}, "my": {}, "myself": {},
	"no": {}, "nor": {}, "not": {}, "of": {}, "off": {}, "on": {},
	"once": {}, "only": {}, "or": {}, "other": {}, "ought": {},
	"our": {}, "ours": {}, "ourselves": {}, "out": {}, "over": {},
	"own": {}, "same": {}, "shan't": {}, "she": {}, "she'd": {},
	"she'll": {}, "she's": {}, "should": {}, "shouldn't": {}, "so": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "that's": {},
	"the": {}, "their": {}, "theirs": {}, "them": {}, "themselves": {},
	"then": {}, "there": {}, "there's": {}, "these": {}, "they": {},
	"they'd": {}, "they'll": {}, "they're": {}, "they've": {},
	"this": {}, "those": {}, "through": {}, "to": {}, "too": {},
	"under": {}, "until": {}, "up": {}, "very": {}, "was": {},
	"wasn't": {}, "we": {}, "we'd": {}, "we'll": {}, "we're": {},
	"we've": {}, "were": {}, "weren't": {}, "what": {}, "what's": {},
	"when": {}, "when's": {}, "where": {}, "where's": {}, "which": {},
	"while": {}, "who": {}, "who's": {}, "whom": {}, "why": {},
	"why's": {}, "with": {}, "won't": {}, "would": {}, "wouldn't": {},
	"you": {}, "you'd": {}, "you'll": {}, "you're": {}, "you've": {},
	"your": {}, "yours": {}, "yourself": {}, "yourselves": {},
}

// FilterWords extracts content words from raw text: lowercased,
// whitespace-split tokens that are purely alphabetic, longer than two
// runes, and not stopwords. The returned sequence preserves text order
// and repetitions for frequency counting.
func FilterWords(rawText string) []string {
	fields := strings.Fields(strings.ToLower(rawText))
	words := make([]string, 0, len(fields))
	for _, tok := range fields {
		if runeLen(tok) <= 2 || !isAlpha(tok) {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		words = append(words, tok)
	}
	return words
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
