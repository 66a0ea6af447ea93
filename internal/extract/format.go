package extract

import (
	"fmt"
	"strings"
)

// Format is the closed set of document kinds the extractor understands.
type Format int

const (
	FormatUnsupported Format = iota
	FormatPDF
	FormatWord
	FormatSpreadsheet
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatWord:
		return "word"
	case FormatSpreadsheet:
		return "spreadsheet"
	case FormatText:
		return "text"
	default:
		return "unsupported"
	}
}

// extensions maps lower-cased file extensions to formats, in the order they are advertised.
var extensions = []struct {
	ext    string
	format Format
}{
	{"pdf", FormatPDF},
	{"docx", FormatWord},
	{"doc", FormatWord},
	{"csv", FormatSpreadsheet},
	{"xlsx", FormatSpreadsheet},
	{"xls", FormatSpreadsheet},
	{"txt", FormatText},
}

// FormatFor returns the format handling ext (without the leading dot).
func FormatFor(ext string) Format {
	for _, e := range extensions {
		if e.ext == ext {
			return e.format
		}
	}
	return FormatUnsupported
}

// SupportedExtensions lists accepted extensions as shown to users: PDF, DOCX, DOC, CSV, XLSX, XLS, TXT.
func SupportedExtensions() []string {
	out := make([]string, 0, len(extensions))
	for _, e := range extensions {
		out = append(out, strings.ToUpper(e.ext))
	}
	return out
}

// formatSpec binds a format to its decoder and its user-facing wrappers.
// header and failure are fmt templates taking the filename.
type formatSpec struct {
	decode  func(e *Extractor, ext string, data []byte) (string, error)
	header  string
	failure string
}

var formatSpecs = map[Format]formatSpec{
	FormatPDF: {
		decode:  func(_ *Extractor, _ string, data []byte) (string, error) { return decodePDF(data) },
		header:  "[PDF Content - %s]\n",
		failure: "[Could not extract text from PDF: %s]",
	},
	FormatWord: {
		decode:  (*Extractor).decodeWord,
		header:  "[Document Content - %s]\n",
		failure: "[Could not extract text from Word document: %s]",
	},
	FormatSpreadsheet: {
		decode:  func(_ *Extractor, ext string, data []byte) (string, error) { return decodeSpreadsheet(ext, data) },
		header:  "[Data from %s]\n",
		failure: "[Could not extract data from spreadsheet: %s]",
	},
	FormatText: {
		decode:  func(_ *Extractor, _ string, data []byte) (string, error) { return decodeText(data) },
		header:  "[Text Content - %s]\n",
		failure: "[Could not decode text file: %s]",
	},
}

// recoverAs converts a panic raised by a third-party parser into an error.
func recoverAs(err *error, what string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: %v", what, r)
	}
}
