package xgrammar

import (
	"fmt"
	"strconv"
	"strings"
)

// generateRangeRegex produces a regex (in the dialect ebnf.ParseRegexFragment
// understands) matching exactly the decimal representations of the integers
// in [lo,hi]. A nil bound means unbounded in that direction. Ported from
// the reference algorithm: split into negative/zero/positive bands, and
// within a band walk shared high-order digits, expanding the free
// low-order digits per run of equal digit length.
func generateRangeRegex(lo, hi *int64) string {
	if lo != nil && hi != nil && *hi < *lo {
		return "^()$"
	}

	var alts []string

	if lo == nil || *lo < 0 {
		magLo := int64(1)
		if hi != nil && *hi < 0 {
			magLo = -*hi
		}
		var inner string
		if lo != nil {
			magHi := -*lo
			inner = positiveRangeRegex(magLo, magHi)
		} else {
			inner = positiveUnboundedRegex(magLo)
		}
		alts = append(alts, "-("+inner+")")
	}

	if (lo == nil || *lo <= 0) && (hi == nil || *hi >= 0) {
		alts = append(alts, "0")
	}

	if hi == nil || *hi > 0 {
		posLo := int64(1)
		if lo != nil && *lo > 1 {
			posLo = *lo
		}
		var inner string
		if hi != nil {
			inner = positiveRangeRegex(posLo, *hi)
		} else {
			inner = positiveUnboundedRegex(posLo)
		}
		alts = append(alts, wrapAlt(inner))
	}

	return "^(" + strings.Join(alts, "|") + ")$"
}

// wrapAlt parenthesizes inner if it is a top-level alternation (contains a
// bare '|'), matching the reference output's grouping style.
func wrapAlt(inner string) string {
	if strings.Contains(inner, "|") {
		return "(" + inner + ")"
	}
	return inner
}

// positiveRangeRegex returns an alternation (without outer parens) of
// decimal literals/classes covering exactly [a,b], a,b >= 1.
func positiveRangeRegex(a, b int64) string {
	aStr := strconv.FormatInt(a, 10)
	bStr := strconv.FormatInt(b, 10)
	if len(aStr) == len(bStr) {
		return sameLenRange(aStr, bStr)
	}

	var parts []string
	firstMax := pow10(len(aStr)) - 1
	parts = append(parts, sameLenRange(aStr, strconv.FormatInt(firstMax, 10)))

	for l := len(aStr) + 1; l < len(bStr); l++ {
		parts = append(parts, "[1-9]"+digitsWildcard(l-1))
	}

	lastMin := pow10(len(bStr) - 1)
	parts = append(parts, sameLenRange(strconv.FormatInt(lastMin, 10), bStr))
	return strings.Join(parts, "|")
}

// positiveUnboundedRegex returns an alternation covering [a, +inf).
func positiveUnboundedRegex(a int64) string {
	aStr := strconv.FormatInt(a, 10)
	allNines := strings.Repeat("9", len(aStr))
	head := sameLenRange(aStr, allNines)
	tail := "[1-9]" + digitsWildcard(len(aStr)) + "\\d*"
	return head + "|" + tail
}

// sameLenRange generates the regex for the inclusive range [sMin,sMax]
// where both are decimal strings of equal length, by recursively fixing
// shared leading digits and splitting the remainder into a low boundary
// run, a free middle digit-class run, and a high boundary run.
func sameLenRange(sMin, sMax string) string {
	if sMin == sMax {
		return sMin
	}
	if len(sMin) == 1 {
		return fmt.Sprintf("[%s-%s]", sMin, sMax)
	}
	if sMin[0] == sMax[0] {
		inner := sameLenRange(sMin[1:], sMax[1:])
		return string(sMin[0]) + wrapAlt(inner)
	}

	var parts []string
	d0, d1 := sMin[0], sMax[0]
	restLen := len(sMin) - 1
	allNines := strings.Repeat("9", restLen)
	allZeros := strings.Repeat("0", restLen)

	if sMin[1:] == allNines {
		parts = append(parts, string(d0)+sMin[1:])
	} else {
		inner := sameLenRange(sMin[1:], allNines)
		parts = append(parts, string(d0)+wrapAlt(inner))
	}

	if d1-d0 >= 2 {
		midLo, midHi := d0+1, d1-1
		var digitClass string
		if midLo == midHi {
			digitClass = string(midLo)
		} else {
			digitClass = fmt.Sprintf("[%c-%c]", midLo, midHi)
		}
		parts = append(parts, digitClass+digitsWildcard(restLen))
	}

	if sMax[1:] == allZeros {
		parts = append(parts, string(d1)+sMax[1:])
	} else {
		inner := sameLenRange(allZeros, sMax[1:])
		parts = append(parts, string(d1)+wrapAlt(inner))
	}

	return strings.Join(parts, "|")
}

func digitsWildcard(k int) string {
	switch {
	case k == 0:
		return ""
	case k == 1:
		return "\\d"
	default:
		return fmt.Sprintf("\\d{%d}", k)
	}
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
