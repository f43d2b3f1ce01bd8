// Package tracking builds the pixel URLs that record impressions, clicks and
// custom events against the engine.
package tracking

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// RevenueModifier selects how a revenue amount attached to a pixel is
// applied.
type RevenueModifier int

const (
	// ModifierNone fires the pixel as-is.
	ModifierNone RevenueModifier = iota
	// ModifierOverride replaces the revenue booked for the event.
	ModifierOverride
	// ModifierAdditional adds to the revenue booked for the event.
	ModifierAdditional
)

// Query parameter names understood by the engine.
const (
	ParamOverride   = "override"
	ParamAdditional = "additional"
)

var (
	ErrEmptyURL        = errors.New("pixel url is empty")
	ErrInvalidURL      = errors.New("pixel url is not absolute")
	ErrUnknownModifier = errors.New("unknown revenue modifier")
)

func (m RevenueModifier) String() string {
	switch m {
	case ModifierNone:
		return "none"
	case ModifierOverride:
		return ParamOverride
	case ModifierAdditional:
		return ParamAdditional
	default:
		return "unknown"
	}
}

// PixelURL returns rawURL with the revenue modifier applied as a query
// parameter. With ModifierNone the URL is returned unchanged and revenue is
// ignored. Existing query parameters are preserved.
func PixelURL(rawURL string, revenue float64, modifier RevenueModifier) (string, error) {
	if rawURL == "" {
		return "", ErrEmptyURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	var param string
	switch modifier {
	case ModifierNone:
		return rawURL, nil
	case ModifierOverride:
		param = ParamOverride
	case ModifierAdditional:
		param = ParamAdditional
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownModifier, int(modifier))
	}

	q := u.Query()
	q.Set(param, strconv.FormatFloat(revenue, 'f', -1, 64))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PixelResult is what the engine answered to a fired pixel. Click pixels
// redirect, so Location carries the click target.
type PixelResult struct {
	StatusCode int
	Location   string
}

// Redirected reports whether the engine answered with a redirect.
func (r PixelResult) Redirected() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400 && r.Location != ""
}

// ResultFromResponse extracts the pixel result from an HTTP response. The
// body is not read.
func ResultFromResponse(resp *http.Response) PixelResult {
	if resp == nil {
		return PixelResult{}
	}
	return PixelResult{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
	}
}
