package quantity

import "golang.org/x/text/width"

// DisplayWidth returns the display width of text in half-width units:
// East Asian Wide and Fullwidth code points count 2, everything else counts 1.
// Ambiguous-width code points count 1, matching x/text's neutral context.
func DisplayWidth(text string) int {
	total := 0
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += 2
		default:
			total++
		}
	}
	return total
}

// FitsWidth reports whether text is at or under max display-width units.
// A string exactly at the limit fits.
func FitsWidth(text string, max int) bool {
	return DisplayWidth(text) <= max
}
