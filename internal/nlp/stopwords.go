package nlp

// stopWords is the fixed English stop-word set applied during normalization.
// It mirrors the list the model was trained against; contractions appear in
// their punctuation-stripped form ("dont", "wasnt") because the letter filter
// runs before tokenization.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"ain": {}, "all": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {},
	"arent": {}, "as": {}, "at": {}, "be": {}, "because": {}, "been": {},
	"before": {}, "being": {}, "below": {}, "between": {}, "both": {}, "but": {},
	"by": {}, "can": {}, "cant": {}, "couldnt": {}, "d": {}, "did": {},
	"didnt": {}, "do": {}, "does": {}, "doesnt": {}, "doing": {}, "dont": {},
	"down": {}, "during": {}, "each": {}, "few": {}, "for": {}, "from": {},
	"further": {}, "had": {}, "hadnt": {}, "has": {}, "hasnt": {}, "have": {},
	"havent": {}, "having": {}, "he": {}, "her": {}, "here": {}, "hers": {},
	"herself": {}, "him": {}, "himself": {}, "his": {}, "how": {}, "i": {},
	"if": {}, "in": {}, "into": {}, "is": {}, "isnt": {}, "it": {}, "its": {},
	"itself": {}, "just": {}, "ll": {}, "m": {}, "ma": {}, "me": {},
	"mightnt": {}, "more": {}, "most": {}, "mustnt": {}, "my": {}, "myself": {},
	"neednt": {}, "no": {}, "nor": {}, "not": {}, "now": {}, "o": {}, "of": {},
	"off": {}, "on": {}, "once": {}, "only": {}, "or": {}, "other": {},
	"our": {}, "ours": {}, "ourselves": {}, "out": {}, "over": {}, "own": {},
	"re": {}, "s": {}, "same": {}, "shant": {}, "she": {}, "shes": {},
	"should": {}, "shouldnt": {}, "shouldve": {}, "so": {}, "some": {},
	"such": {}, "t": {}, "than": {}, "that": {}, "thatll": {}, "the": {},
	"their": {}, "theirs": {}, "them": {}, "themselves": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "to": {}, "too": {}, "under": {}, "until": {}, "up": {},
	"ve": {}, "very": {}, "was": {}, "wasnt": {}, "we": {}, "were": {},
	"werent": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "whom": {}, "why": {}, "will": {}, "with": {},
	"wont": {}, "wouldnt": {}, "y": {}, "you": {}, "youd": {}, "youll": {},
	"your": {}, "youre": {}, "yours": {}, "yourself": {}, "yourselves": {},
	"youve": {},
}

// IsStopWord reports whether the (already lowercased) token is excluded from
// feature extraction.
func IsStopWord(tok string) bool {
	_, ok := stopWords[tok]
	return ok
}
