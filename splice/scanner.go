package splice

import (
	"bytes"
	"strconv"
)

// objScanWindow bounds the backward scan parse_object_number_before performs,
// so a pathological input cannot force a quadratic walk.
const objScanWindow = 2000

// findToken returns the offset of the first occurrence of needle in
// haystack, or -1 if absent.
func findToken(haystack, needle []byte) int {
	return bytes.Index(haystack, needle)
}

// rfindToken returns the offset of the last occurrence of needle in
// haystack, or -1 if absent.
func rfindToken(haystack, needle []byte) int {
	return bytes.LastIndex(haystack, needle)
}

// parseObjectNumberBefore starts just before cursor, locates the nearest
// preceding " 0 obj", then walks backward over ASCII digits to recover the
// object number defining that token. The search is bounded to objScanWindow
// bytes so it cannot run away on inputs with no matching marker.
func parseObjectNumberBefore(haystack []byte, cursor int) (int, bool) {
	lo := cursor - objScanWindow
	if lo < 0 {
		lo = 0
	}
	window := haystack[lo:cursor]

	marker := []byte(" 0 obj")
	idx := bytes.LastIndex(window, marker)
	if idx < 0 {
		return 0, false
	}

	end := lo + idx
	start := end
	for start > 0 && haystack[start-1] >= '0' && haystack[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}

	n, err := strconv.Atoi(string(haystack[start:end]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// nextObjectNumber scans every "N 0 obj" definition in the buffer and
// returns one greater than the maximum N seen. It is a straightforward
// linear scan rather than a bounded window: it must see every object in
// the file to avoid colliding with an existing object number.
func nextObjectNumber(pdf []byte) int {
	max := 0
	marker := []byte(" 0 obj")
	pos := 0
	for {
		idx := bytes.Index(pdf[pos:], marker)
		if idx < 0 {
			break
		}
		end := pos + idx
		start := end
		for start > 0 && pdf[start-1] >= '0' && pdf[start-1] <= '9' {
			start--
		}
		if start < end {
			if n, err := strconv.Atoi(string(pdf[start:end])); err == nil && n > max {
				max = n
			}
		}
		pos = end + len(marker)
	}
	return max + 1
}

// removeTrailingNewline strips every trailing "\n" and "\r" byte, in
// whatever order they appear, so that signing is insensitive to how many
// blank lines or which line ending the source file happened to end with.
// Exactly one "\n" of the splicer's own is appended afterward.
func removeTrailingNewline(pdf []byte) []byte {
	out := pdf
	for len(out) > 0 && (out[len(out)-1] == '\n' || out[len(out)-1] == '\r') {
		out = out[:len(out)-1]
	}
	return out
}
