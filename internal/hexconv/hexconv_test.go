package hexconv

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func benchLocal(b *testing.B, str string) {
	b.SetBytes(int64(len(str)))
	b.ResetTimer()

	for range b.N {
		var result uint64

		for j := range str {
			result = (result << 4) | uint64(Halfbyte[str[j]])
		}
	}
}

func BenchmarkParse(b *testing.B) {
	b.Run("short", func(b *testing.B) {
		benchLocal(b, "123456789abcdef")
	})

	b.Run("long", func(b *testing.B) {
		benchLocal(b, strings.Repeat("123456789abcdef", 100))
	})
}

func TestLenient(t *testing.T) {
	t.Run("every byte", func(t *testing.T) {
		for i := 0; i < 256; i++ {
			for _, digits := range []string{fmt.Sprintf("%02x", i), fmt.Sprintf("%02X", i)} {
				require.Equal(t, byte(i), Lenient(digits[0], digits[1]), digits)
			}
		}
	})

	t.Run("bad second digit", func(t *testing.T) {
		require.Equal(t, byte(0x4), Lenient('4', 'G'))
		require.Equal(t, byte(0xa), Lenient('a', '%'))
	})

	t.Run("bad first digit", func(t *testing.T) {
		require.Equal(t, byte(0), Lenient('G', '4'))
		require.Equal(t, byte(0), Lenient('z', 'z'))
	})
}
