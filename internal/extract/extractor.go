// Package extract turns uploaded documents into prompt-ready text.
//
// Extraction is total: every call yields a Result whose Text can be embedded
// in a prompt. Decoder failures are reported through Result.Err while Text
// carries a bracketed diagnostic such as "[Could not extract text from PDF: x.pdf]".
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"nerachat/internal/core"
)

var (
	// ErrEmptyFile is reported for zero-length uploads.
	ErrEmptyFile = errors.New("empty file")
	// ErrUnsupportedFormat is reported when no decoder handles the extension.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Result is the outcome of one extraction.
// Text is always renderable; when Err is non-nil it holds a diagnostic instead of file content.
type Result struct {
	Filename string
	Format   Format
	Text     string
	Err      error
}

// OK reports whether Text holds extracted content.
func (r Result) OK() bool {
	return r.Err == nil
}

// Config configures an Extractor.
type Config struct {
	// TempDir is where Word documents are staged; empty means os.TempDir().
	TempDir string
	// OnExtract, if set, is called once per extraction with its format and outcome.
	OnExtract func(format Format, ok bool)
}

// Extractor dispatches uploads to format decoders.
// It holds no per-request state and is safe for concurrent use.
type Extractor struct {
	tempDir   string
	onExtract func(Format, bool)
	specs     map[Format]formatSpec
}

// New creates an Extractor.
func New(cfg Config) *Extractor {
	return newExtractor(cfg, formatSpecs)
}

func newExtractor(cfg Config, specs map[Format]formatSpec) *Extractor {
	return &Extractor{
		tempDir:   cfg.TempDir,
		onExtract: cfg.OnExtract,
		specs:     specs,
	}
}

// Extension returns the lower-cased text after the last '.' in filename, or "" if there is none.
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// Extract converts raw file bytes to text. It never panics and never returns a bare error.
func (e *Extractor) Extract(ctx context.Context, filename, contentType string, data []byte) (res Result) {
	ext := Extension(filename)
	format := FormatFor(ext)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			slog.ErrorContext(ctx, "unexpected error processing file",
				core.RequestAttr(ctx), "filename", filename, "error", err)
			res = Result{
				Filename: filename,
				Format:   format,
				Text:     fmt.Sprintf("[Error processing file %s: %v]", filename, err),
				Err:      err,
			}
		}
		if e.onExtract != nil {
			e.onExtract(res.Format, res.OK())
		}
	}()

	if len(data) == 0 {
		slog.WarnContext(ctx, "empty file", core.RequestAttr(ctx), "filename", filename)
		return Result{Filename: filename, Format: format, Text: fmt.Sprintf("[Empty file: %s]", filename), Err: ErrEmptyFile}
	}

	slog.InfoContext(ctx, "processing file",
		core.RequestAttr(ctx),
		"filename", filename,
		"content_type", contentType,
		"extension", ext,
		"format", format.String(),
	)

	spec, ok := e.specs[format]
	if !ok {
		slog.WarnContext(ctx, "unsupported file type", core.RequestAttr(ctx), "extension", ext, "filename", filename)
		return Result{
			Filename: filename,
			Format:   FormatUnsupported,
			Text: fmt.Sprintf("[File %s has an unsupported format (.%s). Supported formats: %s]",
				filename, ext, strings.Join(SupportedExtensions(), ", ")),
			Err: ErrUnsupportedFormat,
		}
	}

	text, err := spec.decode(e, ext, data)
	if err != nil {
		slog.ErrorContext(ctx, "could not extract file",
			core.RequestAttr(ctx), "filename", filename, "format", format.String(), "error", err)
		return Result{Filename: filename, Format: format, Text: fmt.Sprintf(spec.failure, filename), Err: err}
	}

	return Result{Filename: filename, Format: format, Text: fmt.Sprintf(spec.header, filename) + text}
}

// ExtractFile reads an uploaded file and extracts it.
// A read failure yields "[Failed to read file: <name>]".
func (e *Extractor) ExtractFile(ctx context.Context, file core.UploadedFile) Result {
	data, err := readUpload(file)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read file", core.RequestAttr(ctx), "filename", file.Filename, "error", err)
		res := Result{
			Filename: file.Filename,
			Format:   FormatFor(Extension(file.Filename)),
			Text:     fmt.Sprintf("[Failed to read file: %s]", file.Filename),
			Err:      err,
		}
		if e.onExtract != nil {
			e.onExtract(res.Format, false)
		}
		return res
	}
	return e.Extract(ctx, file.Filename, file.ContentType, data)
}

// ExtractAll extracts every file concurrently. Results are returned in input order.
func (e *Extractor) ExtractAll(ctx context.Context, files []core.UploadedFile) []Result {
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	wg.Add(len(files))
	for i, file := range files {
		go func() {
			defer wg.Done()
			results[i] = e.ExtractFile(ctx, file)
		}()
	}
	wg.Wait()

	return results
}

func readUpload(file core.UploadedFile) (data []byte, err error) {
	if file.Open == nil {
		return nil, errors.New("no content available")
	}
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rc.Close(); err == nil {
			err = closeErr
		}
	}()
	return io.ReadAll(rc)
}
