package inputprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"selectsense/internal/util"
)

// Input types reported in Result.InputType.
const (
	InputFile = "file"
	InputURL  = "url"
	InputRaw  = "raw"
)

const maxBodyBytes = 10 << 20

// Result holds extracted content details.
type Result struct {
	Body        string
	ContentType string
	InputType   string
	Source      string // absolute file path or URL; empty for raw input
	FileSize    int64
	Mtime       time.Time
}

// IsHTML reports whether the content is an HTML document.
func (r Result) IsHTML() bool {
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.HasPrefix(r.ContentType, "text/html")
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// Processor turns a command-line input (file path, URL or literal text) into
// text content.
type Processor interface {
	Process(ctx context.Context, input string) (Result, error)
}

// New creates the default processor. A nil client uses one with a 30s timeout.
func New(client *http.Client) Processor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &defaultProcessor{client: client}
}

type defaultProcessor struct {
	client *http.Client
}

func (p *defaultProcessor) Process(ctx context.Context, input string) (Result, error) {
	var res Result

	// --- Detect File ---
	fi, err := os.Stat(input)
	if err == nil && !fi.IsDir() {
		log.Debugf("Input '%s' detected as a file.", input)
		if binary, _ := util.IsLikelyBinary(input); binary {
			return res, fmt.Errorf("file '%s' looks binary", input)
		}
		data, readErr := os.ReadFile(input)
		if readErr != nil {
			if errors.Is(readErr, os.ErrPermission) {
				return res, fmt.Errorf("permission denied reading file '%s': %w", input, readErr)
			}
			return res, fmt.Errorf("failed to read file '%s': %w", input, readErr)
		}
		absPath, pathErr := filepath.Abs(input)
		if pathErr != nil {
			log.Warnf("Failed to get absolute path for '%s': %v. Using original path.", input, pathErr)
			absPath = input
		}

		res.Body, err = util.CleanText(data, absPath)
		if err != nil {
			return res, err
		}
		res.ContentType = contentTypeForFile(absPath, data)
		res.InputType = InputFile
		res.Source = absPath
		res.FileSize = fi.Size()
		res.Mtime = fi.ModTime()
		return res, nil
	} else if err == nil {
		log.Debugf("Input '%s' is a directory, treating as raw string.", input)
	} else if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, os.ErrInvalid) {
		log.Debugf("Stat of '%s' failed (%v), treating as raw string.", input, err)
	}

	// --- Detect URL ---
	if u, urlErr := url.Parse(input); urlErr == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return p.fetch(ctx, u)
	}

	// --- Default: Treat as Raw String ---
	res.Body, err = util.CleanText([]byte(input), "input")
	if err != nil {
		return res, err
	}
	res.ContentType = "text/plain; charset=utf-8"
	res.InputType = InputRaw
	return res, nil
}

func (p *defaultProcessor) fetch(ctx context.Context, u *url.URL) (Result, error) {
	var res Result
	log.Debugf("Input '%s' detected as a URL.", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return res, fmt.Errorf("failed to create request for URL '%s': %w", u, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("failed to fetch URL '%s': %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		hint, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return res, fmt.Errorf("failed to fetch URL '%s': status code %d %s - Body Hint: %s", u, resp.StatusCode, http.StatusText(resp.StatusCode), string(hint))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return res, fmt.Errorf("failed to read response body from URL '%s': %w", u, err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(body)
		log.Debugf("Content-Type header missing for URL '%s', detected as '%s'", u, ct)
	}

	res.Body, err = util.CleanText(body, u.String())
	if err != nil {
		return res, err
	}
	res.ContentType = ct
	res.InputType = InputURL
	res.Source = u.String()
	res.FileSize = int64(len(body))
	return res, nil
}

func contentTypeForFile(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return "text/html; charset=utf-8"
	}
	return http.DetectContentType(data)
}

var _ Processor = (*defaultProcessor)(nil)
