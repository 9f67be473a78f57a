package wixml

import (
	"bytes"

	"github.com/yaklabco/goxmlint/pkg/markup"
)

// lineIndex maps byte offsets to 1-based line/column positions.
type lineIndex struct {
	// starts[i] is the byte offset where line i+1 begins.
	starts []int64
	size   int64
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int64{0}
	for i := 0; ; {
		j := bytes.IndexByte(content[i:], '\n')
		if j < 0 {
			break
		}
		i += j + 1
		starts = append(starts, int64(i))
	}
	return &lineIndex{starts: starts, size: int64(len(content))}
}

func (li *lineIndex) lineCount() int {
	return len(li.starts)
}

// position converts a byte offset into a 1-based (line, column) pair.
// Offsets past the end clamp to the final position.
func (li *lineIndex) position(offset int64) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > li.size {
		offset = li.size
	}

	// Binary search for the last line start <= offset.
	lo, hi := 0, len(li.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	return lo + 1, int(offset-li.starts[lo]) + 1
}

// rangeOf converts a [start, end) byte span into an inclusive source range.
func (li *lineIndex) rangeOf(start, end int64) markup.SourceRange {
	startLine, startCol := li.position(start)
	if end > start {
		end--
	}
	endLine, endCol := li.position(end)
	return markup.NewSourceRange(startLine, startCol, endLine, endCol)
}
