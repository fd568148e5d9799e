package textutil

import "sort"

// NaturalLess reports whether a sorts before b when embedded digit runs are
// compared by numeric value rather than byte order, so "chapter2" precedes
// "chapter10". Letter comparison is case-insensitive.
func NaturalLess(a, b string) bool {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		ac, bc := a[ai], b[bi]
		if isDigit(ac) && isDigit(bc) {
			aj := ai
			for aj < len(a) && isDigit(a[aj]) {
				aj++
			}
			bj := bi
			for bj < len(b) && isDigit(b[bj]) {
				bj++
			}
			an := trimLeadingZeros(a[ai:aj])
			bn := trimLeadingZeros(b[bi:bj])
			if len(an) != len(bn) {
				return len(an) < len(bn)
			}
			if an != bn {
				return an < bn
			}
			ai, bi = aj, bj
			continue
		}
		al, bl := lowerByte(ac), lowerByte(bc)
		if al != bl {
			return al < bl
		}
		ai++
		bi++
	}
	return len(a)-ai < len(b)-bi
}

// SortNatural sorts values in place using NaturalLess on the result of key.
// Pass nil to sort on the values themselves.
func SortNatural(values []string, key func(string) string) {
	if key == nil {
		key = func(s string) string { return s }
	}
	sort.SliceStable(values, func(i, j int) bool {
		return NaturalLess(key(values[i]), key(values[j]))
	})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}
