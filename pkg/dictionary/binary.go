package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadBinary parses the binary format: a little-endian int32 entry count,
// then per entry a uint16 byte length, the word bytes and the weight as
// float64 bits.
func ReadBinary(r io.Reader, opts Options) (*Dictionary, error) {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", ErrMalformed, err)
	}
	if totalEntries < 0 {
		return nil, fmt.Errorf("%w: negative entry count %d", ErrMalformed, totalEntries)
	}

	normalize := opts.normalizer()
	d := &Dictionary{}
	for count := 0; count < int(totalEntries); count++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			return nil, fmt.Errorf("%w: entry %d: failed to read word length: %w", ErrMalformed, count, err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return nil, fmt.Errorf("%w: entry %d: failed to read word: %w", ErrMalformed, count, err)
		}

		var bits uint64
		if err := binary.Read(reader, binary.LittleEndian, &bits); err != nil {
			return nil, fmt.Errorf("%w: entry %d: failed to read weight: %w", ErrMalformed, count, err)
		}

		d.Add(normalize(string(wordBytes)), math.Float64frombits(bits))
	}
	return d, nil
}

// WriteBinary writes d in the binary format read by ReadBinary.
func WriteBinary(w io.Writer, d *Dictionary) error {
	if d.Len() > math.MaxInt32 {
		return fmt.Errorf("%w: %d entries do not fit the binary header", ErrDictionary, d.Len())
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(d.Len())); err != nil {
		return err
	}
	for i, word := range d.Terms {
		if len(word) > math.MaxUint16 {
			return fmt.Errorf("%w: entry %d is %d bytes long", ErrDictionary, i, len(word))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, math.Float64bits(d.Weights[i])); err != nil {
			return err
		}
	}
	return bw.Flush()
}
