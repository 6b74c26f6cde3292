// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"

	"github.com/armon/circbuf"
)

// stderrTail bounds how much of a converter's diagnostics is kept.
const stderrTail = 64 << 10

// newStderrTail returns a writer keeping the last stderrTail bytes.
func newStderrTail() *circbuf.Buffer {
	b, err := circbuf.NewBuffer(stderrTail)
	if err != nil {
		panic(err)
	}
	return b
}

// lastLine returns the last non-empty line of s, trimmed.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
