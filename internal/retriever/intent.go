package retriever

import "strings"

var (
	seekTokens  = []string{"need", "ship", "request"}
	offerTokens = []string{"offer", "available", "capacity"}
)

// Intent is the coarse direction of a chat message. Matching is a
// case-insensitive substring test, so "shipping" counts as "ship".
type Intent struct {
	SeeksCapacity  bool
	OffersCapacity bool
}

// Classify derives the intent of message.
func Classify(message string) Intent {
	m := strings.ToLower(message)
	return Intent{
		SeeksCapacity:  containsAny(m, seekTokens),
		OffersCapacity: containsAny(m, offerTokens),
	}
}

// WantsOffers reports whether carrier capacity belongs in the context.
func (i Intent) WantsOffers() bool { return i.SeeksCapacity || !i.OffersCapacity }

// WantsRequests reports whether shipper needs belong in the context.
func (i Intent) WantsRequests() bool { return i.OffersCapacity || !i.SeeksCapacity }

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
