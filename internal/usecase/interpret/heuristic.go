package interpret

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cognicart/cognicart/internal/domain/query"
)

// Deterministic fallback extractor: regex and keyword scan over the raw
// text. Never fails; worst case yields empty criteria.

var (
	upperBoundRe = regexp.MustCompile(`(?i)(?:under|below|less than|within|up\s?to|max(?:imum)?)\s*(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d+)?)(k\b)?`)
	lowerBoundRe = regexp.MustCompile(`(?i)(?:over|above|more than|at least|min(?:imum)?)\s*(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d+)?)(k\b)?`)
	rangeRe      = regexp.MustCompile(`(?i)between\s*(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d+)?)(k\b)?\s*(?:and|to|-)\s*(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d+)?)(k\b)?`)
	bareAmountRe = regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([\d,]+(?:\.\d+)?)(k\b)?`)
	wordRe       = regexp.MustCompile(`[a-z0-9]+`)
)

// categoryKeywords maps a product-type keyword to its broad category.
var categoryKeywords = map[string]string{
	"phone": "electronics", "smartphone": "electronics", "mobile": "electronics",
	"laptop": "electronics", "tablet": "electronics", "tv": "electronics",
	"headphones": "electronics", "headphone": "electronics", "earbuds": "electronics",
	"earphones": "electronics", "speaker": "electronics", "smartwatch": "electronics",
	"camera": "electronics", "monitor": "electronics", "keyboard": "electronics",
	"mouse": "electronics", "powerbank": "electronics", "charger": "electronics",

	"shoes": "fashion", "sneakers": "fashion", "sandals": "fashion",
	"shirt": "fashion", "tshirt": "fashion", "jeans": "fashion",
	"dress": "fashion", "jacket": "fashion", "watch": "fashion",
	"backpack": "fashion", "wallet": "fashion", "sunglasses": "fashion",

	"mixer": "home", "blender": "home", "kettle": "home", "cooker": "home",
	"vacuum": "home", "mattress": "home", "pillow": "home", "lamp": "home",
	"airfryer": "home", "purifier": "home", "fan": "home", "heater": "home",

	"shampoo": "beauty", "perfume": "beauty", "trimmer": "beauty",
	"moisturizer": "beauty", "sunscreen": "beauty",

	"dumbbells": "sports", "treadmill": "sports", "cycle": "sports",
	"yoga": "sports", "cricket": "sports", "football": "sports",

	"book": "books", "novel": "books",
}

// featureKeywords are phrases matched as required features.
var featureKeywords = []string{
	"bluetooth", "wireless", "noise cancelling", "noise cancellation",
	"waterproof", "water resistant", "fast charging", "quick charge",
	"amoled", "oled", "5g", "4k", "gaming", "touchscreen",
	"lightweight", "foldable", "rechargeable", "cordless",
	"leather", "cotton", "stainless steel", "non stick",
}

// stopwords are dropped from residual terms.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "i": {}, "me": {}, "my": {}, "we": {},
	"is": {}, "am": {}, "are": {}, "was": {}, "do": {}, "does": {},
	"want": {}, "need": {}, "looking": {}, "for": {}, "find": {}, "show": {},
	"buy": {}, "get": {}, "some": {}, "good": {}, "best": {}, "nice": {},
	"with": {}, "and": {}, "or": {}, "to": {}, "of": {}, "in": {}, "on": {},
	"under": {}, "below": {}, "above": {}, "over": {}, "between": {},
	"rs": {}, "inr": {}, "rupees": {}, "than": {}, "less": {}, "more": {},
	"up": {}, "within": {}, "max": {}, "min": {}, "at": {}, "least": {},
	"please": {}, "really": {}, "something": {}, "suggest": {}, "recommend": {},
}

// Heuristic extracts criteria from raw text without the provider.
func Heuristic(text string, knownBrands []string) query.Criteria {
	lower := strings.ToLower(text)

	budget, consumed := extractBudget(lower)

	var features []string
	for _, kw := range featureKeywords {
		if strings.Contains(lower, kw) {
			features = append(features, kw)
			consumed = append(consumed, wordRe.FindAllString(kw, -1)...)
		}
	}

	var brands []string
	for _, b := range knownBrands {
		bl := strings.ToLower(b)
		if containsWord(lower, bl) {
			brands = append(brands, bl)
			consumed = append(consumed, wordRe.FindAllString(bl, -1)...)
		}
	}

	var productType, category string
	for _, tok := range wordRe.FindAllString(lower, -1) {
		if cat, ok := categoryKeywords[tok]; ok {
			productType, category = tok, cat
			consumed = append(consumed, tok)
			break
		}
	}

	residual := residualTerms(lower, consumed)

	return query.New(productType, category, features, brands, budget, "", residual)
}

// extractBudget scans for price bounds. Returns the budget and the
// numeric tokens it consumed.
func extractBudget(lower string) (query.Budget, []string) {
	var consumed []string

	if m := rangeRe.FindStringSubmatch(lower); m != nil {
		min := parseAmount(m[1], m[2])
		max := parseAmount(m[3], m[4])
		consumed = append(consumed, wordRe.FindAllString(m[0], -1)...)
		return query.NewBudget(&min, &max), consumed
	}

	var minP, maxP *float64
	if m := upperBoundRe.FindStringSubmatch(lower); m != nil {
		v := parseAmount(m[1], m[2])
		maxP = &v
		consumed = append(consumed, wordRe.FindAllString(m[0], -1)...)
	}
	if m := lowerBoundRe.FindStringSubmatch(lower); m != nil {
		v := parseAmount(m[1], m[2])
		minP = &v
		consumed = append(consumed, wordRe.FindAllString(m[0], -1)...)
	}
	if maxP == nil && minP == nil {
		if m := bareAmountRe.FindStringSubmatch(lower); m != nil {
			// A bare currency amount reads as a cap.
			v := parseAmount(m[1], m[2])
			maxP = &v
			consumed = append(consumed, wordRe.FindAllString(m[0], -1)...)
		}
	}
	return query.NewBudget(minP, maxP), consumed
}

func parseAmount(num, kSuffix string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return 0
	}
	if kSuffix != "" {
		v *= 1000
	}
	return v
}

func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isAlnum(text[start-1])
		afterOK := end == len(text) || !isAlnum(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z'
}

func residualTerms(lower string, consumed []string) []string {
	used := make(map[string]struct{}, len(consumed))
	for _, c := range consumed {
		used[c] = struct{}{}
	}

	var out []string
	for _, tok := range wordRe.FindAllString(lower, -1) {
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := used[tok]; ok {
			continue
		}
		if _, err := strconv.Atoi(tok); err == nil {
			continue
		}
		out = append(out, tok)
	}
	return out
}
