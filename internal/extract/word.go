package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

const wordDocumentPart = "word/document.xml"

var errNotWordDocument = errors.New("missing " + wordDocumentPart)

// decodeWord stages data in a temporary file and reads the document body from it.
// The temporary file is removed on every return path, including panics.
func (e *Extractor) decodeWord(ext string, data []byte) (string, error) {
	f, err := os.CreateTemp(e.tempDir, "nera-upload-*."+ext)
	if err != nil {
		return "", err
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("could not delete temp file", "path", path, "error", err)
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return wordFileText(path)
}

// wordFileText extracts paragraph text from a .docx package on disk.
// Legacy binary .doc files are not zip packages and fail to open.
func wordFileText(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != wordDocumentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return wordXMLText(rc)
	}
	return "", errNotWordDocument
}

// wordXMLText walks WordprocessingML, emitting <w:t> runs, tabs and breaks,
// with one line per paragraph.
func wordXMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch v := tok.(type) {
		case xml.StartElement:
			switch v.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch v.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(v)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
