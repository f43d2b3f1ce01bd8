// Package userdb builds UserDB endpoint URLs and decodes the user records the
// engine keeps per visitor.
package userdb

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrInvalidBaseURL = errors.New("userdb base url must be absolute")
	ErrMissingUserKey = errors.New("user key is required")
	ErrMissingValue   = errors.New("required path value is empty")
)

// Endpoints builds UserDB URLs below a base such as https://engine.adzerk.net.
type Endpoints struct {
	base *url.URL
}

// NewEndpoints validates baseURL.
func NewEndpoints(baseURL string) (Endpoints, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Endpoints{}, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	return Endpoints{base: u}, nil
}

// ReadUser is the URL that returns the full user record.
func (e Endpoints) ReadUser(networkID int64, userKey string) (string, error) {
	return e.build(userKey, nil, network(networkID), "read")
}

// CustomProperties is the URL custom properties are POSTed to.
func (e Endpoints) CustomProperties(networkID int64, userKey string) (string, error) {
	return e.build(userKey, nil, network(networkID), "custom")
}

// Interest is the pixel that adds an interest to the user.
func (e Endpoints) Interest(networkID int64, userKey, interest string) (string, error) {
	if interest == "" {
		return "", fmt.Errorf("%w: interest", ErrMissingValue)
	}
	return e.build(userKey, url.Values{"interest": {interest}}, network(networkID), "interest", "i.gif")
}

// OptOut is the pixel that opts the user out of tracking.
func (e Endpoints) OptOut(networkID int64, userKey string) (string, error) {
	return e.build(userKey, nil, network(networkID), "optout", "i.gif")
}

// Retargeting is the pixel that places the user in a brand's segment.
func (e Endpoints) Retargeting(networkID, brandID int64, segment, userKey string) (string, error) {
	if segment == "" {
		return "", fmt.Errorf("%w: segment", ErrMissingValue)
	}
	return e.build(userKey, nil, network(networkID), "rt", strconv.FormatInt(brandID, 10), segment, "i.gif")
}

func (e Endpoints) build(userKey string, extra url.Values, segments ...string) (string, error) {
	if e.base == nil {
		return "", ErrInvalidBaseURL
	}
	if userKey == "" {
		return "", ErrMissingUserKey
	}
	u := e.base.JoinPath(append([]string{"udb"}, segments...)...)
	q := url.Values{"userKey": {userKey}}
	for k, vs := range extra {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func network(id int64) string { return strconv.FormatInt(id, 10) }
