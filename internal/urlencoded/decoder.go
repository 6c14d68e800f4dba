package urlencoded

import (
	"github.com/indigo-web/microserve/internal/hexconv"
	"github.com/indigo-web/utils/uf"
)

// Decode decodes percent-escapes and plus-signs of src into dst, but omits copying
// if there's nothing to be decoded. Decoding never fails: a percent-sign followed by
// less than two characters is kept as is, and malformed hex digits are decoded
// leniently (see hexconv.Lenient).
func Decode(src, dst []byte) (decoded, buffer []byte) {
	dsthead := len(dst)
	modified := false

loop:
	for i, c := range src {
		switch c {
		case '+':
			modified = true
			dst = append(dst, src[:i]...)
			dst = append(dst, ' ')
			src = src[i+1:]
			goto loop
		case '%':
			if len(src)-i < 3 {
				// too short to be an escape, so the percent-sign is kept as is
				continue
			}

			modified = true
			dst = append(dst, src[:i]...)
			dst = append(dst, hexconv.Lenient(src[i+1], src[i+2]))
			src = src[i+3:]
			goto loop
		}
	}

	if !modified {
		return src, dst
	}

	dst = append(dst, src...)
	return dst[dsthead:], dst
}

// DecodeString is the same as Decode, but operates on strings. The result never
// shares memory with anything but the source string itself.
func DecodeString(src string) string {
	decoded, _ := Decode(uf.S2B(src), nil)
	return uf.B2S(decoded)
}
