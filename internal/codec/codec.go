package codec

import (
	"errors"
	"fmt"

	"github.com/patrickwarner/adzerk-sdk/internal/models"
	"github.com/patrickwarner/adzerk-sdk/internal/observability"

	"go.uber.org/zap"
)

// requestOptionsField is the Request field holding its additional options.
const requestOptionsField = "additionalOptions"

// Options configures a Codec.
type Options struct {
	// NetworkID and SiteID fill placements that left them at zero.
	NetworkID int64
	SiteID    int64
	Logger    *zap.Logger
	Metrics   observability.MetricsRegistry
}

// Codec encodes decision requests and decodes decision responses. It holds
// no mutable state after New and is safe for concurrent use.
type Codec struct {
	networkID int64
	siteID    int64
	encoder   *FlattenEncoder
	logger    *zap.Logger
	metrics   observability.MetricsRegistry
}

// New returns a Codec. A nil logger or metrics registry disables that output.
func New(opts Options) (*Codec, error) {
	enc, err := newRequestEncoder()
	if err != nil {
		return nil, err
	}
	c := &Codec{
		networkID: opts.NetworkID,
		siteID:    opts.SiteID,
		encoder:   enc,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("codec")
	if c.metrics == nil {
		c.metrics = observability.NewNoOpRegistry()
	}
	return c, nil
}

func newRequestEncoder() (*FlattenEncoder, error) {
	enc := NewFlattenEncoder()
	if err := enc.Register(&models.Request{}, requestOptionsField); err != nil {
		return nil, err
	}
	return enc, nil
}

// Encode renders req as the JSON request body. Additional options are
// written as top-level fields after the first-class ones.
func (c *Codec) Encode(req *models.Request) ([]byte, error) {
	if req == nil {
		c.metrics.IncrementEncodes("error")
		return nil, ErrNilRequest
	}
	if c.networkID != 0 || c.siteID != 0 {
		req = req.WithPlacementDefaults(c.networkID, c.siteID)
	}
	body, err := c.encoder.Encode(req)
	if err != nil {
		c.metrics.IncrementEncodes(errorStatus(err))
		c.logger.Warn("encode request failed", zap.Error(err))
		return nil, fmt.Errorf("encode request: %w", err)
	}
	c.metrics.IncrementEncodes("ok")
	c.metrics.RecordPayloadBytes("request", len(body))
	c.logger.Debug("encoded request",
		zap.Int("placements", len(req.Placements())),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

// Decode parses a decision response body.
func (c *Codec) Decode(data []byte) (*models.DecisionResponse, error) {
	resp, err := DecodeResponse(data)
	if err != nil {
		c.metrics.IncrementDecodes(errorStatus(err))
		c.logger.Warn("decode response failed", zap.Error(err), zap.Int("bytes", len(data)))
		return nil, err
	}
	c.metrics.IncrementDecodes("ok")
	c.metrics.RecordPayloadBytes("response", len(data))
	for _, slot := range resp.Decisions {
		c.metrics.IncrementDecisionSlots(slot.Kind.String())
	}
	c.logger.Debug("decoded response",
		zap.String("user_key", resp.UserKey()),
		zap.Int("placements", len(resp.Decisions)),
	)
	return resp, nil
}

// EncodeRequest encodes req without placement defaults.
func EncodeRequest(req *models.Request) ([]byte, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	enc, err := newRequestEncoder()
	if err != nil {
		return nil, err
	}
	return enc.Encode(req)
}

func errorStatus(err error) string {
	switch {
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, ErrUnexpectedShape):
		return "shape_error"
	case errors.Is(err, ErrMalformedDecision):
		return "malformed"
	case errors.Is(err, ErrOptionCollision):
		return "collision"
	case errors.Is(err, ErrFlattenConfig):
		return "config_error"
	default:
		return "error"
	}
}
