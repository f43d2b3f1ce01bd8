package codec

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/patrickwarner/adzerk-sdk/internal/models"
	"github.com/patrickwarner/adzerk-sdk/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCodec(t *testing.T, networkID, siteID int64) (*Codec, *observability.MockMetricsRegistry) {
	t.Helper()
	metrics := observability.NewMockMetricsRegistry()
	c, err := New(Options{
		NetworkID: networkID,
		SiteID:    siteID,
		Logger:    zaptest.NewLogger(t),
		Metrics:   metrics,
	})
	require.NoError(t, err)
	return c, metrics
}

func buildRequest(t *testing.T, configure func(b *models.RequestBuilder)) *models.Request {
	t.Helper()
	p, err := models.NewSitePlacement("div1", 0, 5)
	require.NoError(t, err)
	b := models.NewRequestBuilder().AddPlacement(p)
	if configure != nil {
		configure(b)
	}
	req, err := b.Build()
	require.NoError(t, err)
	return req
}

func TestEncodeAppliesDefaultsAndOptions(t *testing.T) {
	c, metrics := newTestCodec(t, 9792, 306998)

	req := buildRequest(t, func(b *models.RequestBuilder) {
		b.SetUserKey("ad39231daeb043f2a9610414f08394b5").
			SetKeywords("cats").
			SetFlightViewTimes(333, 1500000000).
			SetBotFilteringEnabled(true).
			AddAdditionalOption("isMobile", true).
			AddAdditionalOption("deviceId", "abc-123")
	})

	body, err := c.Encode(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"placements":[{"divName":"div1","networkId":9792,"siteId":306998,"adTypes":[5]}],
		"user":{"key":"ad39231daeb043f2a9610414f08394b5"},
		"keywords":["cats"],
		"flightViewTimes":{"333":[1500000000]},
		"enableBotFiltering":true,
		"isMobile":true,
		"deviceId":"abc-123"
	}`, string(body))
	assert.NotContains(t, string(body), "additionalOptions")

	assert.Equal(t, 1, metrics.Encodes["ok"])
	assert.Equal(t, []int{len(body)}, metrics.PayloadBytes["request"])

	// The request itself keeps its zero ids.
	assert.Equal(t, int64(0), req.Placements()[0].NetworkID())
}

func TestEncodeOptionCollision(t *testing.T) {
	c, metrics := newTestCodec(t, 1, 2)

	req := buildRequest(t, func(b *models.RequestBuilder) {
		b.AddAdditionalOption("enableBotFiltering", true)
	})
	_, err := c.Encode(req)
	assert.ErrorIs(t, err, ErrOptionCollision)
	assert.Equal(t, 1, metrics.Encodes["collision"])
}

func TestEncodeOptionCollidesWithOmittedField(t *testing.T) {
	c, metrics := newTestCodec(t, 1, 2)

	// keywords is unset, so it is missing from the output, but still reserved.
	req := buildRequest(t, func(b *models.RequestBuilder) {
		b.AddAdditionalOption("keywords", "x")
	})
	_, err := c.Encode(req)
	assert.ErrorIs(t, err, ErrOptionCollision)

	req = buildRequest(t, func(b *models.RequestBuilder) {
		b.SetKeywords("cats").AddAdditionalOption("keywords", "x")
	})
	_, err = c.Encode(req)
	assert.ErrorIs(t, err, ErrOptionCollision)
	assert.Equal(t, 2, metrics.Encodes["collision"])
}

func TestEncodeOptionNamedAfterContainer(t *testing.T) {
	req := buildRequest(t, func(b *models.RequestBuilder) {
		b.AddAdditionalOption("additionalOptions", 7)
	})
	body, err := EncodeRequest(req)
	assert.ErrorIs(t, err, ErrOptionCollision)
	assert.Nil(t, body)
}

func TestEncodeReservesEveryRequestField(t *testing.T) {
	for _, key := range (&models.Request{}).JSONFields() {
		t.Run(key, func(t *testing.T) {
			req := buildRequest(t, func(b *models.RequestBuilder) {
				b.AddAdditionalOption(key, 1)
			})
			_, err := EncodeRequest(req)
			assert.ErrorIs(t, err, ErrOptionCollision)
		})
	}
}

func TestEncodeNilRequest(t *testing.T) {
	c, metrics := newTestCodec(t, 0, 0)
	_, err := c.Encode(nil)
	assert.ErrorIs(t, err, ErrNilRequest)
	assert.Equal(t, 1, metrics.Encodes["error"])

	_, err = EncodeRequest(nil)
	assert.ErrorIs(t, err, ErrNilRequest)
}

func TestEncodeRequestWithoutDefaults(t *testing.T) {
	body, err := EncodeRequest(buildRequest(t, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"placements":[{"divName":"div1","networkId":0,"siteId":0,"adTypes":[5]}],
		"enableBotFiltering":false
	}`, string(body))
}

func TestDecodeRecordsMetrics(t *testing.T) {
	c, metrics := newTestCodec(t, 0, 0)

	resp, err := c.Decode(loadFixture(t, "single_winner.json"))
	require.NoError(t, err)
	assert.Len(t, resp.Decisions, 2)
	assert.Equal(t, 1, metrics.Decodes["ok"])
	assert.Equal(t, 1, metrics.DecisionSlots["single"])
	assert.Equal(t, 1, metrics.DecisionSlots["no_winner"])

	_, err = c.Decode([]byte(`{"decisions":[]}`))
	assert.ErrorIs(t, err, ErrUnexpectedShape)
	assert.Equal(t, 1, metrics.Decodes["shape_error"])

	_, err = c.Decode([]byte(`{"decisions":{"div1":{"adId":"x"}}}`))
	assert.ErrorIs(t, err, ErrMalformedDecision)
	assert.Equal(t, 1, metrics.Decodes["malformed"])
}

func TestCodecConcurrentUse(t *testing.T) {
	c, _ := newTestCodec(t, 1, 2)
	req := buildRequest(t, func(b *models.RequestBuilder) {
		b.AddAdditionalOption("k", 1)
	})
	fixture := loadFixture(t, "multi_winner.json")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := c.Encode(req)
			assert.NoError(t, err)
			assert.Contains(t, string(body), `"k":1`)
			resp, err := c.Decode(fixture)
			assert.NoError(t, err)
			assert.Len(t, resp.Winners("div1"), 3)
		}()
	}
	wg.Wait()
}

func TestNewWithoutLoggerOrMetrics(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	_, err = c.Decode([]byte(`{}`))
	assert.NoError(t, err)
}

func TestEncodeOptionsAreRootSiblings(t *testing.T) {
	c, _ := newTestCodec(t, 1, 2)
	req := buildRequest(t, func(b *models.RequestBuilder) {
		b.AddAdditionalOption("int1", 1).AddAdditionalOption("string1", "v")
	})

	body, err := c.Encode(req)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Contains(t, doc, "placements")
	assert.JSONEq(t, `1`, string(doc["int1"]))
	assert.JSONEq(t, `"v"`, string(doc["string1"]))
	assert.NotContains(t, doc, "additionalOptions")
}
