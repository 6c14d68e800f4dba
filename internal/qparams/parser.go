package qparams

import (
	"strings"

	"github.com/indigo-web/microserve/internal/urlencoded"
	"github.com/indigo-web/microserve/kv"
)

// Count returns the upper bound of pairs the data may contain: zero for empty data,
// otherwise the number of ampersands plus one.
func Count(data string) int {
	if len(data) == 0 {
		return 0
	}

	return strings.Count(data, "&") + 1
}

// Parse decodes a flat key=value&key=value sequence into a fresh storage. Segments
// without an equality sign before the next ampersand are skipped silently. Keys and
// values are urldecoded independently, so an escaped ampersand or equality sign stays
// a part of the value.
func Parse(data string) *kv.Storage {
	n := Count(data)
	args := kv.NewPrealloc(n)

	for pos := 0; args.Len() < n; {
		rest := data[pos:]
		eq := strings.IndexByte(rest, '=')
		amp := strings.IndexByte(rest, '&')

		if eq == -1 || (amp != -1 && eq > amp) {
			if amp == -1 {
				break
			}

			pos += amp + 1
			continue
		}

		value := rest[eq+1:]
		if amp != -1 {
			value = rest[eq+1 : amp]
		}

		args.Add(urlencoded.DecodeString(rest[:eq]), urlencoded.DecodeString(value))

		if amp == -1 {
			break
		}

		pos += amp + 1
	}

	return args
}
