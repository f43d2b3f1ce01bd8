package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlacementValidation(t *testing.T) {
	_, err := NewPlacement("", 1, 2, 5)
	assert.ErrorIs(t, err, ErrMissingDivName)

	_, err = NewPlacement("div1", 1, 2)
	assert.ErrorIs(t, err, ErrNoAdTypes)

	p, err := NewPlacement("div1", 9792, 306998, 5, 5, 4)
	require.NoError(t, err)
	assert.Equal(t, "div1", p.DivName())
	assert.Equal(t, int64(9792), p.NetworkID())
	assert.Equal(t, int64(306998), p.SiteID())
	assert.Equal(t, []int{5, 4}, p.AdTypes())
}

func TestPlacementSetsKeepOrderAndDedupe(t *testing.T) {
	p, err := NewPlacement("div1", 1, 2, 5)
	require.NoError(t, err)

	p.AddAdTypes(4, 5, 3).
		SetZoneIDs(7, 7, 8).
		AddZoneIDs(8, 9).
		SetEventIDs(12, 13).
		AddEventIDs(13, 14)

	assert.Equal(t, []int{5, 4, 3}, p.AdTypes())
	assert.Equal(t, []int{7, 8, 9}, p.ZoneIDs())
	assert.Equal(t, []int{12, 13, 14}, p.EventIDs())

	p.SetZoneIDs(1)
	assert.Equal(t, []int{1}, p.ZoneIDs())
}

func TestPlacementAccessorsReturnCopies(t *testing.T) {
	p, err := NewPlacement("div1", 1, 2, 5)
	require.NoError(t, err)
	p.AddProperty("color", "blue")

	types := p.AdTypes()
	types[0] = 99
	props := p.Properties()
	props["color"] = "red"

	assert.Equal(t, []int{5}, p.AdTypes())
	v, ok := p.Property("color")
	assert.True(t, ok)
	assert.Equal(t, "blue", v)
}

func TestPlacementOptionalPins(t *testing.T) {
	p, err := NewPlacement("div1", 1, 2, 5)
	require.NoError(t, err)

	_, ok := p.CampaignID()
	assert.False(t, ok)

	p.SetCampaignID(11).SetFlightID(22).SetAdID(33).SetClickURL("http://example.com")
	c, _ := p.CampaignID()
	f, _ := p.FlightID()
	a, _ := p.AdID()
	assert.Equal(t, 11, c)
	assert.Equal(t, 22, f)
	assert.Equal(t, 33, a)
	assert.Equal(t, "http://example.com", p.ClickURL())
}

func TestPlacementSetCount(t *testing.T) {
	p, err := NewPlacement("div1", 1, 2, 5)
	require.NoError(t, err)

	p.SetCount(3)
	assert.Equal(t, 3, p.Count())
	p.SetCount(1)
	assert.Equal(t, 0, p.Count())
}

func TestPlacementMarshalJSON(t *testing.T) {
	p, err := NewPlacement("div1", 9792, 306998, 5)
	require.NoError(t, err)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"divName":"div1","networkId":9792,"siteId":306998,"adTypes":[5]}`, string(b))

	p.SetZoneIDs(3).SetCampaignID(4).SetProperties(map[string]any{"k": 1}).SetCount(2)
	b, err = json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"divName":"div1","networkId":9792,"siteId":306998,"adTypes":[5],
		"zoneIds":[3],"campaignId":4,"properties":{"k":1},"count":2
	}`, string(b))
}

func TestPlacementWithDefaults(t *testing.T) {
	p, err := NewSitePlacement("div1", 0, 5)
	require.NoError(t, err)

	c := p.withDefaults(10, 20)
	assert.Equal(t, int64(10), c.NetworkID())
	assert.Equal(t, int64(20), c.SiteID())
	assert.Equal(t, int64(0), p.NetworkID(), "original must be untouched")

	p.SetSiteID(30)
	c = p.withDefaults(10, 20)
	assert.Equal(t, int64(30), c.SiteID())
}
