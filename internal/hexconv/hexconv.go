package hexconv

// Halfbyte maps an ASCII hex digit to its value. Every other byte maps to 0xFF.
var Halfbyte = [256]byte{}

func init() {
	for i := range Halfbyte {
		Halfbyte[i] = 0xFF
	}

	for c := byte('0'); c <= '9'; c++ {
		Halfbyte[c] = c - '0'
	}

	for c := byte('a'); c <= 'f'; c++ {
		Halfbyte[c] = c - 'a' + 10
		Halfbyte[c-'a'+'A'] = c - 'a' + 10
	}
}

// Lenient decodes a two-digit escape the way strtol(base 16) would: the longest valid
// hex prefix is taken. So "4G" gives 0x4 and "G4" gives 0.
func Lenient(hi, lo byte) byte {
	a := Halfbyte[hi]
	if a == 0xFF {
		return 0
	}

	b := Halfbyte[lo]
	if b == 0xFF {
		return a
	}

	return a<<4 | b
}
