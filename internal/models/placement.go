package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Placement describes one ad slot the caller wants filled. The slot is
// identified by its div name, which is also the key the engine uses for the
// matching entry in the decision response.
//
// A Placement is built with NewPlacement and refined with its setters before
// it is handed to a RequestBuilder. The builder takes its own copy, so
// changing a placement after it was added has no effect on built requests.
type Placement struct {
	divName   string
	networkID int64
	siteID    int64
	// adTypes is an ordered set, never empty.
	adTypes  []int
	zoneIDs  []int
	eventIDs []int
	// Optional targeting pins. A nil pointer means "not set" and the field is
	// left off the wire.
	campaignID *int
	flightID   *int
	adID       *int
	clickURL   string
	properties map[string]any
	// count asks the engine for multiple winners. Zero leaves it unset.
	count int
}

// NewPlacement creates a placement for divName. At least one ad type is
// required; duplicates are dropped while keeping first-seen order.
// A zero networkID or siteID is filled from codec defaults at encode time.
func NewPlacement(divName string, networkID, siteID int64, adTypes ...int) (*Placement, error) {
	if divName == "" {
		return nil, ErrMissingDivName
	}
	set := appendUnique(nil, adTypes...)
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAdTypes, divName)
	}
	return &Placement{
		divName:   divName,
		networkID: networkID,
		siteID:    siteID,
		adTypes:   set,
	}, nil
}

// NewSitePlacement creates a placement whose network id is taken from the
// codec defaults.
func NewSitePlacement(divName string, siteID int64, adTypes ...int) (*Placement, error) {
	return NewPlacement(divName, 0, siteID, adTypes...)
}

func (p *Placement) DivName() string  { return p.divName }
func (p *Placement) NetworkID() int64 { return p.networkID }
func (p *Placement) SiteID() int64    { return p.siteID }
func (p *Placement) ClickURL() string { return p.clickURL }
func (p *Placement) Count() int       { return p.count }

// AdTypes returns a copy of the ad type set.
func (p *Placement) AdTypes() []int { return slices.Clone(p.adTypes) }

// ZoneIDs returns a copy of the zone id set.
func (p *Placement) ZoneIDs() []int { return slices.Clone(p.zoneIDs) }

// EventIDs returns a copy of the custom event id set.
func (p *Placement) EventIDs() []int { return slices.Clone(p.eventIDs) }

func (p *Placement) CampaignID() (int, bool) { return derefInt(p.campaignID) }
func (p *Placement) FlightID() (int, bool)   { return derefInt(p.flightID) }
func (p *Placement) AdID() (int, bool)       { return derefInt(p.adID) }

// Properties returns a shallow copy of the custom targeting properties.
func (p *Placement) Properties() map[string]any { return maps.Clone(p.properties) }

// Property returns a single custom property.
func (p *Placement) Property(key string) (any, bool) {
	v, ok := p.properties[key]
	return v, ok
}

func (p *Placement) SetNetworkID(id int64) *Placement {
	p.networkID = id
	return p
}

func (p *Placement) SetSiteID(id int64) *Placement {
	p.siteID = id
	return p
}

// AddAdTypes extends the ad type set.
func (p *Placement) AddAdTypes(ids ...int) *Placement {
	p.adTypes = appendUnique(p.adTypes, ids...)
	return p
}

// SetZoneIDs replaces the zone id set.
func (p *Placement) SetZoneIDs(ids ...int) *Placement {
	p.zoneIDs = appendUnique(nil, ids...)
	return p
}

// AddZoneIDs extends the zone id set.
func (p *Placement) AddZoneIDs(ids ...int) *Placement {
	p.zoneIDs = appendUnique(p.zoneIDs, ids...)
	return p
}

// SetEventIDs replaces the custom event id set.
func (p *Placement) SetEventIDs(ids ...int) *Placement {
	p.eventIDs = appendUnique(nil, ids...)
	return p
}

// AddEventIDs extends the custom event id set.
func (p *Placement) AddEventIDs(ids ...int) *Placement {
	p.eventIDs = appendUnique(p.eventIDs, ids...)
	return p
}

func (p *Placement) SetCampaignID(id int) *Placement {
	p.campaignID = &id
	return p
}

func (p *Placement) SetFlightID(id int) *Placement {
	p.flightID = &id
	return p
}

func (p *Placement) SetAdID(id int) *Placement {
	p.adID = &id
	return p
}

func (p *Placement) SetClickURL(u string) *Placement {
	p.clickURL = u
	return p
}

// SetProperties replaces the custom targeting properties.
func (p *Placement) SetProperties(props map[string]any) *Placement {
	p.properties = maps.Clone(props)
	return p
}

// AddProperty sets a single custom targeting property.
func (p *Placement) AddProperty(key string, value any) *Placement {
	if p.properties == nil {
		p.properties = make(map[string]any)
	}
	p.properties[key] = value
	return p
}

// SetCount asks for up to n winners in this slot. Values below 2 clear it.
func (p *Placement) SetCount(n int) *Placement {
	if n < 2 {
		n = 0
	}
	p.count = n
	return p
}

// withDefaults returns a copy with zero network and site ids replaced.
func (p *Placement) withDefaults(networkID, siteID int64) *Placement {
	c := p.clone()
	if c.networkID == 0 {
		c.networkID = networkID
	}
	if c.siteID == 0 {
		c.siteID = siteID
	}
	return c
}

func (p *Placement) clone() *Placement {
	c := *p
	c.adTypes = slices.Clone(p.adTypes)
	c.zoneIDs = slices.Clone(p.zoneIDs)
	c.eventIDs = slices.Clone(p.eventIDs)
	c.campaignID = cloneInt(p.campaignID)
	c.flightID = cloneInt(p.flightID)
	c.adID = cloneInt(p.adID)
	c.properties = maps.Clone(p.properties)
	return &c
}

type placementWire struct {
	DivName    string         `json:"divName"`
	NetworkID  int64          `json:"networkId"`
	SiteID     int64          `json:"siteId"`
	AdTypes    []int          `json:"adTypes"`
	ZoneIDs    []int          `json:"zoneIds,omitempty"`
	CampaignID *int           `json:"campaignId,omitempty"`
	FlightID   *int           `json:"flightId,omitempty"`
	AdID       *int           `json:"adId,omitempty"`
	ClickURL   string         `json:"clickUrl,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	EventIDs   []int          `json:"eventIds,omitempty"`
	Count      int            `json:"count,omitempty"`
}

// MarshalJSON renders the placement in the engine's wire form.
func (p *Placement) MarshalJSON() ([]byte, error) {
	return json.Marshal(placementWire{
		DivName:    p.divName,
		NetworkID:  p.networkID,
		SiteID:     p.siteID,
		AdTypes:    p.adTypes,
		ZoneIDs:    p.zoneIDs,
		CampaignID: p.campaignID,
		FlightID:   p.flightID,
		AdID:       p.adID,
		ClickURL:   p.clickURL,
		Properties: p.properties,
		EventIDs:   p.eventIDs,
		Count:      p.count,
	})
}

// appendUnique appends vals to dst, skipping anything already present.
func appendUnique[T comparable](dst []T, vals ...T) []T {
	for _, v := range vals {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func derefInt(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
