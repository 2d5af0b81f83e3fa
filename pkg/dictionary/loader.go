package dictionary

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ianlewis/go-dictzip"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options controls how entries are normalized while loading.
type Options struct {
	// Lowercase folds every word to lower case. Words that collide after
	// folding are merged, keeping the heaviest weight.
	Lowercase bool
}

func (o Options) normalizer() func(string) string {
	if !o.Lowercase {
		return func(s string) string { return s }
	}
	return cases.Lower(language.Und).String
}

// Load reads the dictionary at path, choosing the decoder from the file
// extension.
func Load(path string, opts Options) (*Dictionary, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrDictionary, path, err)
	}
	defer f.Close()

	var d *Dictionary
	switch format {
	case FormatText:
		d, err = ReadText(f, opts)
	case FormatDictzip:
		d, err = readDictzip(f, opts)
	case FormatBinary:
		d, err = ReadBinary(f, opts)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if opts.Lowercase {
		if merged := d.mergeDuplicates(); merged > 0 {
			log.Warnf("Merged %d entries of %s that only differed by case", merged, path)
		}
	}
	log.Debugf("Loaded %d entries from %s (%s) in %v", d.Len(), path, format, time.Since(start))
	return d, nil
}

func readDictzip(r io.ReadSeeker, opts Options) (*Dictionary, error) {
	z, err := dictzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a dictzip file: %w", ErrMalformed, err)
	}
	defer z.Close()
	return ReadText(z, opts)
}

// Save writes d to path in the format matching its extension.
func Save(path string, d *Dictionary) (err error) {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", ErrDictionary, path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	switch format {
	case FormatText:
		err = WriteText(f, d)
	case FormatDictzip:
		err = writeDictzip(f, d)
	case FormatBinary:
		err = WriteBinary(f, d)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Debugf("Saved %d entries to %s (%s)", d.Len(), path, format)
	return nil
}

func writeDictzip(w io.Writer, d *Dictionary) error {
	z, err := dictzip.NewWriter(w)
	if err != nil {
		return err
	}
	if err := WriteText(z, d); err != nil {
		z.Close()
		return err
	}
	return z.Close()
}
