// =============================================================================
// Address Book Utility - Input Resolver
// =============================================================================
//
// This module turns the --input argument into an AddressInput: the document
// text plus its type (XML or JSON), decided once here.
//
// RESOLUTION ORDER:
//   1. A location with an http/https scheme and a host is fetched over HTTP;
//      the declared Content-Type decides the type
//   2. Anything else is a local file path; the extension, or failing that
//      the first non-blank byte, decides the type
//
// =============================================================================

package input

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/logging"
	"github.com/ginjaninja78/address-book-utility/internal/types"
	"github.com/ginjaninja78/address-book-utility/pkg/utils"
)

// DefaultTimeout bounds URL reads when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Resolver reads inputs from files and URLs.
type Resolver struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the HTTP client used for URL inputs.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) { r.client = client }
}

// WithTimeout sets the deadline for reading a URL input.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) { r.timeout = timeout }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve reads the document at location.
//
// RETURNS:
//   - The input with its type decided.
//   - InputUnavailable when the file or URL cannot be read,
//     UnsupportedMimeType when the content is neither XML nor JSON.
func (r *Resolver) Resolve(ctx context.Context, location string) (types.AddressInput, error) {
	if strings.TrimSpace(location) == "" {
		return types.AddressInput{}, apperrors.New(apperrors.KindUsage, "--input is required", nil)
	}

	if u, ok := ParseURL(location); ok {
		return r.fetch(ctx, u)
	}
	return r.readFile(location)
}

// ParseURL reports whether location is an http(s) URL with a host.
func ParseURL(location string) (*url.URL, bool) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}

// =============================================================================
// URL INPUTS
// =============================================================================

func (r *Resolver) fetch(ctx context.Context, u *url.URL) (types.AddressInput, error) {
	source := u.String()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return types.AddressInput{}, unavailable(source, err)
	}
	req.Header.Set("Accept", "application/json, application/xml;q=0.9, text/xml;q=0.8")

	r.logger.Debug("fetching input", "url", source, "timeout", r.timeout)

	resp, err := r.client.Do(req)
	if err != nil {
		return types.AddressInput{}, unavailable(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.AddressInput{}, unavailable(source, fmt.Errorf("unexpected status %s", resp.Status))
	}

	contentType := resp.Header.Get("Content-Type")
	typ, ok := MediaType(contentType)
	if !ok {
		if contentType == "" {
			contentType = "none"
		}
		return types.AddressInput{}, apperrors.New(apperrors.KindUnsupportedMimeType,
			fmt.Sprintf("unsupported content type %s for %s (expected application/json or application/xml)", contentType, source), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.AddressInput{}, unavailable(source, err)
	}

	r.logger.Debug("fetched input", "url", source, "type", typ, "bytes", len(body))
	return types.AddressInput{Type: typ, Content: string(utils.StripBOM(body)), Source: source}, nil
}

// MediaType maps a Content-Type header value to an input type. Parameters
// such as charset are ignored.
func MediaType(contentType string) (types.InputType, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return 0, false
	}

	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return types.InputJSON, true
	case mediaType == "application/xml", mediaType == "text/xml", strings.HasSuffix(mediaType, "+xml"):
		return types.InputXML, true
	}
	return 0, false
}

// =============================================================================
// FILE INPUTS
// =============================================================================

func (r *Resolver) readFile(path string) (types.AddressInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.AddressInput{}, unavailable(path, err)
	}
	if info.IsDir() {
		return types.AddressInput{}, unavailable(path, fmt.Errorf("is a directory"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.AddressInput{}, unavailable(path, err)
	}

	typ, ok := utils.ProbeFileType(path, data)
	if !ok {
		return types.AddressInput{}, apperrors.New(apperrors.KindUnsupportedMimeType,
			fmt.Sprintf("cannot tell whether %s is XML or JSON", path), nil)
	}

	r.logger.Debug("read input file", "path", path, "type", typ, "bytes", len(data))
	return types.AddressInput{Type: typ, Content: string(utils.StripBOM(data)), Source: path}, nil
}

func unavailable(source string, err error) error {
	return apperrors.New(apperrors.KindInputUnavailable, fmt.Sprintf("cannot read input %s", source), err)
}
