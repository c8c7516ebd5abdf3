package parser

import (
	"bytes"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ardanlabs/bindgen/cast"
)

// GNU preprocessor linemarker: # 12 "path/file.h" 1 3
var linemarkerRe = regexp.MustCompile(`^#\s*(?:line\s+)?(\d+)\s+"([^"]*)"((?:\s+\d+)*)\s*$`)

// Linemarker flag for "the following text comes from a system header".
const systemHeaderFlag = "3"

// lineSpan maps the rows starting at row back to the file they came from.
type lineSpan struct {
	row    int
	file   string
	line   int
	system bool
}

// lineMap translates rows of the parsed buffer into original locations.
type lineMap struct {
	spans []lineSpan
}

// scanLinemarkers records every linemarker in src and returns a copy of src
// with the marker lines blanked, so rows and byte offsets stay aligned with
// the input while the C grammar never sees the markers.
func scanLinemarkers(src []byte, opts Options) ([]byte, *lineMap) {
	lm := &lineMap{spans: []lineSpan{{
		row:    0,
		file:   opts.Filename,
		line:   1,
		system: opts.isSystemPath(opts.Filename),
	}}}

	out := make([]byte, len(src))
	copy(out, src)

	row := 0
	for start := 0; start < len(out); row++ {
		end := bytes.IndexByte(out[start:], '\n')
		if end < 0 {
			end = len(out)
		} else {
			end += start
		}

		line := out[start:end]
		if m := linemarkerRe.FindSubmatch(bytes.TrimRight(line, "\r")); m != nil {
			n, err := strconv.Atoi(string(m[1]))
			if err == nil {
				file := string(m[2])
				lm.spans = append(lm.spans, lineSpan{
					row:    row + 1,
					file:   file,
					line:   n,
					system: hasFlag(string(m[3]), systemHeaderFlag) || opts.isSystemPath(file),
				})
				for i := range line {
					line[i] = ' '
				}
			}
		}

		start = end + 1
	}

	return out, lm
}

func hasFlag(flags, flag string) bool {
	for _, f := range strings.Fields(flags) {
		if f == flag {
			return true
		}
	}
	return false
}

// span returns the span covering row.
func (lm *lineMap) span(row int) lineSpan {
	i := sort.Search(len(lm.spans), func(i int) bool {
		return lm.spans[i].row > row
	})
	if i == 0 {
		return lm.spans[0]
	}
	return lm.spans[i-1]
}

// location converts a zero-based row and column into a source location.
func (lm *lineMap) location(row, column int) (cast.Location, bool) {
	s := lm.span(row)
	return cast.Location{
		File:   s.file,
		Line:   s.line + row - s.row,
		Column: column + 1,
	}, s.system
}
