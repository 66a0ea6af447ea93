package llmclient

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// maxDecodedSize caps decompressed provider bodies (compression bomb protection).
const maxDecodedSize = 16 * 1024 * 1024

// decodeBody decompresses body according to Content-Encoding.
// Identity and empty encodings return the body unchanged.
func decodeBody(body []byte, contentEncoding string) ([]byte, error) {
	// Parse encoding (handle "gzip, br" - take first)
	encoding := strings.ToLower(strings.TrimSpace(strings.Split(contentEncoding, ",")[0]))
	if len(body) == 0 || encoding == "" || encoding == "identity" {
		return body, nil
	}

	var reader io.Reader
	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(bytes.NewReader(body))
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(bytes.NewReader(body))
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}

	decoded, err := io.ReadAll(io.LimitReader(reader, maxDecodedSize+1))
	if err != nil {
		return nil, err
	}
	if len(decoded) > maxDecodedSize {
		return nil, fmt.Errorf("decoded body exceeds %d bytes", maxDecodedSize)
	}
	return decoded, nil
}
