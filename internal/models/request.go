package models

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"
)

// Request is an immutable ad decision request produced by RequestBuilder.
// Every accessor returns a copy, so a Request can be shared between
// goroutines and encoded concurrently.
type Request struct {
	placements       []*Placement
	user             *User
	keywords         []string
	referrer         string
	url              string
	ip               string
	time             *int64
	blockedCreatives []int
	// flightViewTimes maps a flight id to the epoch seconds the user saw it.
	flightViewTimes   map[int][]int64
	consent           *Consent
	botFiltering      bool
	additionalOptions *AdditionalOptions
}

// Placements returns copies of the requested placements in insertion order.
func (r *Request) Placements() []*Placement {
	out := make([]*Placement, len(r.placements))
	for i, p := range r.placements {
		out[i] = p.clone()
	}
	return out
}

// User returns the visitor, if one was set.
func (r *Request) User() (User, bool) {
	if r.user == nil {
		return User{}, false
	}
	return *r.user, true
}

func (r *Request) Keywords() []string        { return slices.Clone(r.keywords) }
func (r *Request) Referrer() string          { return r.referrer }
func (r *Request) URL() string               { return r.url }
func (r *Request) IP() string                { return r.ip }
func (r *Request) BlockedCreatives() []int   { return slices.Clone(r.blockedCreatives) }
func (r *Request) BotFilteringEnabled() bool { return r.botFiltering }

// Time returns the request time override in epoch seconds.
func (r *Request) Time() (int64, bool) {
	if r.time == nil {
		return 0, false
	}
	return *r.time, true
}

// Consent returns the consent flags, if set.
func (r *Request) Consent() (Consent, bool) {
	if r.consent == nil {
		return Consent{}, false
	}
	return *r.consent, true
}

// FlightViewTimes returns the view timestamps recorded for flightID. The
// result is empty, not nil, for unknown flights.
func (r *Request) FlightViewTimes(flightID int) []int64 {
	ts, ok := r.flightViewTimes[flightID]
	if !ok {
		return []int64{}
	}
	return slices.Clone(ts)
}

// AllFlightViewTimes returns a deep copy of the full view history.
func (r *Request) AllFlightViewTimes() map[int][]int64 {
	return cloneViewTimes(r.flightViewTimes)
}

// AdditionalOptions returns a copy of the extra top-level fields.
func (r *Request) AdditionalOptions() *AdditionalOptions {
	return r.additionalOptions.Clone()
}

// ExtraFields exposes the additional options to the flattening encoder.
func (r *Request) ExtraFields() *AdditionalOptions {
	return r.additionalOptions.Clone()
}

// WithPlacementDefaults returns a copy of r in which every placement with a
// zero network or site id takes the given value instead.
func (r *Request) WithPlacementDefaults(networkID, siteID int64) *Request {
	c := *r
	c.placements = make([]*Placement, len(r.placements))
	for i, p := range r.placements {
		c.placements[i] = p.withDefaults(networkID, siteID)
	}
	return &c
}

type requestWire struct {
	Placements         []*Placement    `json:"placements"`
	User               *User           `json:"user,omitempty"`
	Keywords           []string        `json:"keywords,omitempty"`
	Referrer           string          `json:"referrer,omitempty"`
	URL                string          `json:"url,omitempty"`
	Time               *int64          `json:"time,omitempty"`
	IP                 string          `json:"ip,omitempty"`
	BlockedCreatives   []int           `json:"blockedCreatives,omitempty"`
	FlightViewTimes    map[int][]int64 `json:"flightViewTimes,omitempty"`
	Consent            *Consent        `json:"consent,omitempty"`
	EnableBotFiltering bool            `json:"enableBotFiltering"`
}

// requestFields lists every key requestWire can emit, omitted or not.
var requestFields = wireKeys(reflect.TypeOf(requestWire{}))

// JSONFields returns the root keys of the request encoding. Additional
// options may not reuse them.
func (r *Request) JSONFields() []string { return slices.Clone(requestFields) }

// MarshalJSON renders the first-class request fields. Additional options are
// not included; they are spliced in by the codec.
func (r *Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestWire{
		Placements:         r.placements,
		User:               r.user,
		Keywords:           r.keywords,
		Referrer:           r.referrer,
		URL:                r.url,
		Time:               r.time,
		IP:                 r.ip,
		BlockedCreatives:   r.blockedCreatives,
		FlightViewTimes:    r.flightViewTimes,
		Consent:            r.consent,
		EnableBotFiltering: r.botFiltering,
	})
}

func cloneViewTimes(in map[int][]int64) map[int][]int64 {
	out := make(map[int][]int64, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}

func wireKeys(t reflect.Type) []string {
	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys = append(keys, name)
		}
	}
	return keys
}
