package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/patrickwarner/adzerk-sdk/internal/models"

	"github.com/buger/jsonparser"
)

// decisionWire mirrors a decision object. Nested values whose kind must be
// checked are kept raw and converted afterwards.
type decisionWire struct {
	AdID          int64           `json:"adId"`
	CreativeID    int64           `json:"creativeId"`
	FlightID      int64           `json:"flightId"`
	CampaignID    int64           `json:"campaignId"`
	PriorityID    int64           `json:"priorityId"`
	ClickURL      string          `json:"clickUrl"`
	ImpressionURL string          `json:"impressionUrl"`
	Contents      json.RawMessage `json:"contents"`
	Events        []models.Event  `json:"events"`
	MatchedPoints json.RawMessage `json:"matchedPoints"`
	Height        int             `json:"height"`
	Width         int             `json:"width"`
}

type contentWire struct {
	Type           string          `json:"type"`
	Template       string          `json:"template"`
	CustomTemplate string          `json:"customTemplate"`
	Body           string          `json:"body"`
	Data           json.RawMessage `json:"data"`
}

// DecodeResponse decodes a decision response document.
//
// Each entry of the decisions object becomes a DecisionSlot: an object is
// a single winner, an array is a multi-winner list (empty means no winner),
// and null is an explicit no-winner. Any other kind fails with
// ErrUnexpectedShape.
func DecodeResponse(data []byte) (*models.DecisionResponse, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	if vt := kindOf(data); vt != jsonparser.Object {
		return nil, NewShapeError("$", "object", vt)
	}

	resp := &models.DecisionResponse{Decisions: make(map[string]models.DecisionSlot)}

	user, err := decodeUser(data)
	if err != nil {
		return nil, err
	}
	resp.User = user

	raw, vt, _, err := jsonparser.Get(data, "decisions")
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError), vt == jsonparser.Null:
		return resp, nil
	case err != nil:
		return nil, err
	case vt != jsonparser.Object:
		return nil, NewShapeError("decisions", "object", vt)
	}

	err = jsonparser.ObjectEach(raw, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
		name := string(key)
		slot, err := decodeSlot(name, value, vt)
		if err != nil {
			return err
		}
		resp.Decisions[name] = slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func decodeUser(data []byte) (*models.User, error) {
	raw, vt, _, err := jsonparser.Get(data, "user")
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError), vt == jsonparser.Null:
		return nil, nil
	case err != nil:
		return nil, err
	case vt != jsonparser.Object:
		return nil, NewShapeError("user", "object", vt)
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	return &u, nil
}

func decodeSlot(name string, value []byte, vt jsonparser.ValueType) (models.DecisionSlot, error) {
	path := "decisions." + name
	switch vt {
	case jsonparser.Null:
		return models.NoWinner(), nil
	case jsonparser.Object:
		d, err := decodeDecision(value, name, 0)
		if err != nil {
			return models.DecisionSlot{}, err
		}
		return models.SingleWinner(d), nil
	case jsonparser.Array:
		var (
			decisions []models.Decision
			elemErr   error
			idx       int
		)
		_, err := jsonparser.ArrayEach(value, func(elem []byte, et jsonparser.ValueType, _ int, _ error) {
			if elemErr != nil {
				return
			}
			i := idx
			idx++
			if et != jsonparser.Object {
				elemErr = NewShapeError(fmt.Sprintf("%s[%d]", path, i), "object", et)
				return
			}
			d, err := decodeDecision(elem, name, i)
			if err != nil {
				elemErr = err
				return
			}
			decisions = append(decisions, d)
		})
		if elemErr != nil {
			return models.DecisionSlot{}, elemErr
		}
		if err != nil {
			return models.DecisionSlot{}, err
		}
		return models.MultipleWinners(decisions), nil
	default:
		return models.DecisionSlot{}, NewShapeError(path, "object, array or null", vt)
	}
}

// decodeDecision decodes one decision object found at decisions.<placement>[index].
func decodeDecision(raw []byte, placement string, index int) (models.Decision, error) {
	path := fmt.Sprintf("decisions.%s[%d]", placement, index)

	var w decisionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Decision{}, &DecodeError{Placement: placement, Index: index, Err: err}
	}

	contents, err := decodeContents(w.Contents, path+".contents")
	if err != nil {
		return models.Decision{}, wrapDecisionErr(err, placement, index)
	}
	points, err := decodeMatchedPoints(w.MatchedPoints, path+".matchedPoints")
	if err != nil {
		return models.Decision{}, wrapDecisionErr(err, placement, index)
	}

	return models.Decision{
		AdID:          w.AdID,
		CreativeID:    w.CreativeID,
		FlightID:      w.FlightID,
		CampaignID:    w.CampaignID,
		PriorityID:    w.PriorityID,
		ClickURL:      w.ClickURL,
		ImpressionURL: w.ImpressionURL,
		Contents:      contents,
		Events:        w.Events,
		MatchedPoints: points,
		Height:        w.Height,
		Width:         w.Width,
	}, nil
}

// wrapDecisionErr keeps shape errors as they are and wraps anything else as
// a malformed decision.
func wrapDecisionErr(err error, placement string, index int) error {
	var se *ShapeError
	if errors.As(err, &se) {
		return err
	}
	return &DecodeError{Placement: placement, Index: index, Err: err}
}

func decodeContents(raw json.RawMessage, path string) ([]models.Content, error) {
	if absent(raw) {
		return nil, nil
	}
	if vt := kindOf(raw); vt != jsonparser.Array {
		return nil, NewShapeError(path, "array", vt)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	out := make([]models.Content, 0, len(elems))
	for i, elem := range elems {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		if vt := kindOf(elem); vt != jsonparser.Object {
			return nil, NewShapeError(elemPath, "object", vt)
		}
		var cw contentWire
		if err := json.Unmarshal(elem, &cw); err != nil {
			return nil, fmt.Errorf("%s: %w", elemPath, err)
		}
		data, err := decodeContentData(cw.Data, elemPath+".data")
		if err != nil {
			return nil, err
		}
		out = append(out, models.Content{
			Type:           cw.Type,
			Template:       cw.Template,
			CustomTemplate: cw.CustomTemplate,
			Body:           cw.Body,
			Data:           data,
		})
	}
	return out, nil
}

func decodeContentData(raw json.RawMessage, path string) (models.ContentData, error) {
	if absent(raw) {
		return models.ContentData{}, nil
	}
	if vt := kindOf(raw); vt != jsonparser.Object {
		return models.ContentData{}, NewShapeError(path, "object", vt)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.ContentData{}, fmt.Errorf("%s: %w", path, err)
	}

	var metadata models.JSONObject
	custom, vt, _, err := jsonparser.Get(raw, models.KeyCustomData)
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError), vt == jsonparser.Null:
	case err != nil:
		return models.ContentData{}, fmt.Errorf("%s: %w", path, err)
	case vt != jsonparser.Object:
		return models.ContentData{}, NewShapeError(path+"."+models.KeyCustomData, "object", vt)
	default:
		if metadata, err = models.NewJSONObject(slices.Clone(custom)); err != nil {
			return models.ContentData{}, fmt.Errorf("%s.%s: %w", path, models.KeyCustomData, err)
		}
	}
	return models.NewContentData(fields, metadata), nil
}
