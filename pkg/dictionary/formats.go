package dictionary

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // "N" header then "weight<TAB>word" lines
	FormatDictzip            // FormatText inside a dictzip container
	FormatBinary             // int32 count, then uint16 length, word, float64 weight
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = []FormatInfo{
	{
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt", ".tsv"},
	},
	{
		Format:      FormatDictzip,
		Description: "Dictzip Compressed Text Dictionary",
		Extensions:  []string{".dz"},
	},
	{
		Format:      FormatBinary,
		Description: "Binary Dictionary",
		Extensions:  []string{".bin"},
	},
}

func (f FileFormat) String() string {
	if info, ok := GetFormatInfo(f); ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFormat picks a format from the file extension.
func DetectFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return info.Format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s (extension %q)", ErrUnknownFormat, filename, ext)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	for _, info := range supportedFormats {
		if info.Format == format {
			return info, true
		}
	}
	return FormatInfo{}, false
}
