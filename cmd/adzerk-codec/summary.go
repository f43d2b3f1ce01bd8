package main

import "github.com/patrickwarner/adzerk-sdk/internal/models"

type responseSummary struct {
	UserKey    string                 `json:"userKey,omitempty"`
	Placements map[string]slotSummary `json:"placements"`
}

type slotSummary struct {
	Kind      string            `json:"kind"`
	Decisions []decisionSummary `json:"decisions,omitempty"`
}

type decisionSummary struct {
	AdID          int64  `json:"adId"`
	CreativeID    int64  `json:"creativeId"`
	FlightID      int64  `json:"flightId"`
	CampaignID    int64  `json:"campaignId"`
	ClickURL      string `json:"clickUrl,omitempty"`
	ImpressionURL string `json:"impressionUrl,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Title         string `json:"title,omitempty"`
	Events        int    `json:"events"`
}

func summarize(resp *models.DecisionResponse) responseSummary {
	out := responseSummary{
		UserKey:    resp.UserKey(),
		Placements: make(map[string]slotSummary, len(resp.Decisions)),
	}
	for name, slot := range resp.Decisions {
		s := slotSummary{Kind: slot.Kind.String()}
		for _, d := range slot.Decisions {
			ds := decisionSummary{
				AdID:          d.AdID,
				CreativeID:    d.CreativeID,
				FlightID:      d.FlightID,
				CampaignID:    d.CampaignID,
				ClickURL:      d.ClickURL,
				ImpressionURL: d.ImpressionURL,
				Events:        len(d.Events),
			}
			if len(d.Contents) > 0 {
				ds.ImageURL, _ = d.Contents[0].ImageURL()
				ds.Title, _ = d.Contents[0].Title()
			}
			s.Decisions = append(s.Decisions, ds)
		}
		out.Placements[name] = s
	}
	return out
}
