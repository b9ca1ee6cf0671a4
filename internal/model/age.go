package model

// AgeBracket is one of six ordered, non-overlapping age ranges.
type AgeBracket int

const (
	BracketNewborn AgeBracket = iota // 0
	BracketChild                     // 1 to 13
	BracketYouth                     // 14 to 21
	BracketAdult                     // 22 to 40
	BracketMiddle                    // 41 to 60
	BracketSenior                    // 61 and over
)

// NumBrackets is the number of age brackets.
const NumBrackets = 6

var bracketLabels = [NumBrackets]string{"0 años", "1 a 13", "14 a 21", "22 a 40", "41 a 60", "+61"}

// bracketUpper holds the inclusive upper bound of every bracket but the last.
var bracketUpper = [NumBrackets - 1]int{0, 13, 21, 40, 60}

// BracketFor classifies an age. Ages are validated as non-negative during
// normalization; anything below zero lands in BracketNewborn.
func BracketFor(age int) AgeBracket {
	for i, hi := range bracketUpper {
		if age <= hi {
			return AgeBracket(i)
		}
	}
	return BracketSenior
}

// Label returns the display label of the bracket.
func (b AgeBracket) Label() string {
	if b < 0 || int(b) >= NumBrackets {
		return ""
	}
	return bracketLabels[b]
}

// AllBrackets returns the brackets in natural order.
func AllBrackets() []AgeBracket {
	out := make([]AgeBracket, NumBrackets)
	for i := range out {
		out[i] = AgeBracket(i)
	}
	return out
}
