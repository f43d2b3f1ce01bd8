package models

import (
	"fmt"
	"slices"
)

// RequestBuilder accumulates request fields and produces an immutable Request.
// Setters chain; the first option error is kept and reported by Build.
//
// A builder is not safe for concurrent use.
type RequestBuilder struct {
	placements       []*Placement
	user             *User
	keywords         []string
	referrer         string
	url              string
	ip               string
	time             *int64
	blockedCreatives []int
	flightViewTimes  map[int][]int64
	consent          *Consent
	botFiltering     bool
	options          *AdditionalOptions
	err              error
}

// NewRequestBuilder returns an empty builder.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{
		flightViewTimes: make(map[int][]int64),
		options:         NewAdditionalOptions(),
	}
}

// NewRequestBuilderWithPlacements seeds a builder with placements. The list
// must not be empty.
func NewRequestBuilderWithPlacements(placements []*Placement) (*RequestBuilder, error) {
	if len(placements) == 0 {
		return nil, ErrEmptyPlacementList
	}
	b := NewRequestBuilder()
	for _, p := range placements {
		if p == nil {
			return nil, ErrNilPlacement
		}
		b.AddPlacement(p)
	}
	return b, nil
}

// AddPlacement appends a copy of p.
func (b *RequestBuilder) AddPlacement(p *Placement) *RequestBuilder {
	if p == nil {
		b.fail(ErrNilPlacement)
		return b
	}
	b.placements = append(b.placements, p.clone())
	return b
}

func (b *RequestBuilder) SetUser(u User) *RequestBuilder {
	b.user = &u
	return b
}

// SetUserKey is shorthand for SetUser(User{Key: key}).
func (b *RequestBuilder) SetUserKey(key string) *RequestBuilder {
	return b.SetUser(User{Key: key})
}

// SetKeywords replaces the keyword set.
func (b *RequestBuilder) SetKeywords(keywords ...string) *RequestBuilder {
	b.keywords = appendUnique(nil, keywords...)
	return b
}

// AddKeywords extends the keyword set.
func (b *RequestBuilder) AddKeywords(keywords ...string) *RequestBuilder {
	b.keywords = appendUnique(b.keywords, keywords...)
	return b
}

func (b *RequestBuilder) SetReferrer(referrer string) *RequestBuilder {
	b.referrer = referrer
	return b
}

func (b *RequestBuilder) SetURL(url string) *RequestBuilder {
	b.url = url
	return b
}

func (b *RequestBuilder) SetIP(ip string) *RequestBuilder {
	b.ip = ip
	return b
}

// SetTime overrides the request time, in epoch seconds.
func (b *RequestBuilder) SetTime(epochSeconds int64) *RequestBuilder {
	b.time = &epochSeconds
	return b
}

// SetBlockedCreatives replaces the blocked creative set.
func (b *RequestBuilder) SetBlockedCreatives(ids ...int) *RequestBuilder {
	b.blockedCreatives = appendUnique(nil, ids...)
	return b
}

// AddBlockedCreatives extends the blocked creative set.
func (b *RequestBuilder) AddBlockedCreatives(ids ...int) *RequestBuilder {
	b.blockedCreatives = appendUnique(b.blockedCreatives, ids...)
	return b
}

// SetFlightViewTimes replaces the view history for one flight. Passing no
// timestamps removes the flight.
func (b *RequestBuilder) SetFlightViewTimes(flightID int, epochSeconds ...int64) *RequestBuilder {
	if len(epochSeconds) == 0 {
		delete(b.flightViewTimes, flightID)
		return b
	}
	b.flightViewTimes[flightID] = slices.Clone(epochSeconds)
	return b
}

func (b *RequestBuilder) SetConsent(c Consent) *RequestBuilder {
	b.consent = &c
	return b
}

func (b *RequestBuilder) SetBotFilteringEnabled(enabled bool) *RequestBuilder {
	b.botFiltering = enabled
	return b
}

// AddAdditionalOption stores an extra top-level field. Duplicate keys and
// unencodable values are reported by Build.
func (b *RequestBuilder) AddAdditionalOption(key string, value any) *RequestBuilder {
	if err := b.options.Add(key, value); err != nil {
		b.fail(err)
	}
	return b
}

// SetAdditionalOptions replaces all extra top-level fields with a copy of opts.
func (b *RequestBuilder) SetAdditionalOptions(opts *AdditionalOptions) *RequestBuilder {
	b.options = opts.Clone()
	return b
}

// Build validates the accumulated state and returns a Request that shares no
// memory with the builder.
func (b *RequestBuilder) Build() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.placements) == 0 {
		return nil, ErrNoPlacements
	}
	req := &Request{
		placements:        make([]*Placement, len(b.placements)),
		keywords:          slices.Clone(b.keywords),
		referrer:          b.referrer,
		url:               b.url,
		ip:                b.ip,
		blockedCreatives:  slices.Clone(b.blockedCreatives),
		flightViewTimes:   cloneViewTimes(b.flightViewTimes),
		botFiltering:      b.botFiltering,
		additionalOptions: b.options.Clone(),
	}
	for i, p := range b.placements {
		req.placements[i] = p.clone()
	}
	if b.user != nil {
		u := *b.user
		req.user = &u
	}
	if b.time != nil {
		t := *b.time
		req.time = &t
	}
	if b.consent != nil {
		c := *b.consent
		req.consent = &c
	}
	return req, nil
}

func (b *RequestBuilder) fail(err error) {
	if b.err == nil {
		b.err = fmt.Errorf("request builder: %w", err)
	}
}
