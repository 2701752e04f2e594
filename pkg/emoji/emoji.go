package emoji

import "strings"

// VariationSelector est ajouté par certains clients Discord après un emoji (U+FE0F).
const VariationSelector = "\uFE0F"

const (
	Wastebasket    = "\U0001F5D1"
	CalendarSpiral = "\U0001F5D3"
	Clock2         = "\U0001F551"
	GreyQuestion   = "\u2754"
	Couch          = "\U0001F6CB"
	X              = "\u274C"

	One       = "1\u20E3"
	Two       = "2\u20E3"
	Three     = "3\u20E3"
	Four      = "4\u20E3"
	Five      = "5\u20E3"
	Six       = "6\u20E3"
	Seven     = "7\u20E3"
	Eight     = "8\u20E3"
	Nine      = "9\u20E3"
	KeycapTen = "\U0001F51F"
)

// Numbers holds the numbered markers 1 to 10, in order.
var Numbers = []string{One, Two, Three, Four, Five, Six, Seven, Eight, Nine, KeycapTen}

// Clean removes variation selectors so that "1️⃣" and "1⃣" compare equal.
func Clean(s string) string {
	return strings.ReplaceAll(s, VariationSelector, "")
}

// Number returns the numbered marker for n (1-based). ok is false outside 1..10.
func Number(n int) (string, bool) {
	if n < 1 || n > len(Numbers) {
		return "", false
	}
	return Numbers[n-1], true
}

// NumberIndex returns the 1-based number of a numbered marker, or 0.
func NumberIndex(s string) int {
	s = Clean(s)
	for i, n := range Numbers {
		if n == s {
			return i + 1
		}
	}
	return 0
}
