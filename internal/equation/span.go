package equation

import (
	"regexp"
	"sort"
	"strings"
)

// span is a half-open byte range [start, end) of the normalized input.
type span struct {
	start, end int
}

// working tracks which parts of the normalized input are still visible
// to later term scans. The source string itself is never edited.
type working struct {
	src  string
	used []span
}

func newWorking(src string) *working {
	return &working{src: src}
}

// match is a regexp hit expressed in source offsets.
type match struct {
	group string
	spans []span
}

// view joins the visible pieces of src and returns, for each byte of the
// joined text, its offset in src.
func (w *working) view() (string, []int) {
	var b strings.Builder
	index := make([]int, 0, len(w.src))
	pos := 0
	for _, u := range w.used {
		b.WriteString(w.src[pos:u.start])
		for i := pos; i < u.start; i++ {
			index = append(index, i)
		}
		pos = u.end
	}
	b.WriteString(w.src[pos:])
	for i := pos; i < len(w.src); i++ {
		index = append(index, i)
	}
	return b.String(), index
}

// find runs re against the visible text. The first capture group, when
// the pattern has one, is returned in match.group.
func (w *working) find(re *regexp.Regexp) (match, bool) {
	text, index := w.view()
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return match{}, false
	}

	var m match
	if len(loc) >= 4 && loc[2] >= 0 {
		m.group = text[loc[2]:loc[3]]
	}

	// A hit may straddle a previously consumed span, so map it back to
	// one or more contiguous source ranges.
	for i := loc[0]; i < loc[1]; i++ {
		off := index[i]
		if n := len(m.spans); n > 0 && m.spans[n-1].end == off {
			m.spans[n-1].end = off + 1
			continue
		}
		m.spans = append(m.spans, span{start: off, end: off + 1})
	}
	return m, true
}

// consume hides the source ranges of m from subsequent scans.
func (w *working) consume(m match) {
	w.used = append(w.used, m.spans...)
	sort.Slice(w.used, func(i, j int) bool { return w.used[i].start < w.used[j].start })
}
