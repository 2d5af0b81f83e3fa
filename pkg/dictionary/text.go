package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	maxLineSize = 1 << 20
	// The header is untrusted; capacity past this grows with the entries read.
	maxPrealloc = 1 << 16
)

// ReadText parses the text format: a first line holding the entry count N,
// then N lines of "weight<TAB>word". Lines past the N-th are ignored.
func ReadText(r io.Reader, opts Options) (*Dictionary, error) {
	s := bufio.NewScanner(bufio.NewReader(r))
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("%w: reading header: %w", ErrDictionary, err)
		}
		return nil, fmt.Errorf("%w: line 1: missing entry count", ErrMalformed)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: line 1: invalid entry count %q", ErrMalformed, s.Text())
	}

	normalize := opts.normalizer()
	capacity := min(n, maxPrealloc)
	d := &Dictionary{
		Terms:   make([]string, 0, capacity),
		Weights: make([]float64, 0, capacity),
	}
	for line := 2; d.Len() < n; line++ {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrDictionary, line, err)
			}
			return nil, fmt.Errorf("%w: expected %d entries, found %d", ErrMalformed, n, d.Len())
		}
		text := strings.TrimRight(s.Text(), "\r")
		weightText, word, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: no tab separator", ErrMalformed, line)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(weightText), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid weight %q", ErrMalformed, line, weightText)
		}
		d.Add(normalize(word), weight)
	}
	return d, nil
}

// WriteText writes d in the text format read by ReadText.
func WriteText(w io.Writer, d *Dictionary) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", d.Len()); err != nil {
		return err
	}
	for i, word := range d.Terms {
		weight := strconv.FormatFloat(d.Weights[i], 'f', -1, 64)
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", weight, word); err != nil {
			return err
		}
	}
	return bw.Flush()
}
