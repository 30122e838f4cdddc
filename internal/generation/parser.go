package generation

import (
	"encoding/json"
	"fmt"
)

// Parse error reasons, surfaced in the error details.
const (
	ParseReasonInvalidJSON      = "invalid-json"
	ParseReasonNotAnArray       = "not-an-array"
	ParseReasonInvalidCardShape = "invalid-card-shape"
)

// CardCandidate is one front/back pair extracted from the raw model output.
// Length caps are enforced later, at persistence time, not here.
type CardCandidate struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Parser validates raw model output into card candidates. All provider
// output is treated as untrusted input.
type Parser struct {
	maxCards int
}

// NewParser creates a parser that truncates results to maxCards.
func NewParser(maxCards int) *Parser {
	return &Parser{maxCards: maxCards}
}

// Parse turns raw model output into a list of card candidates. The content
// must be a JSON array of objects carrying non-empty front and back strings.
// Arrays longer than the card cap are truncated, preserving order.
func (p *Parser) Parse(rawContent string) ([]CardCandidate, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(rawContent), &raw); err != nil {
		// Distinguish "not valid JSON at all" from "valid JSON, wrong shape"
		var probe interface{}
		if probeErr := json.Unmarshal([]byte(rawContent), &probe); probeErr != nil {
			return nil, NewError(KindParseFailed, "model response is not valid JSON", probeErr).
				WithDetail("reason", ParseReasonInvalidJSON)
		}
		return nil, NewError(KindParseFailed, "model response is not a JSON array", nil).
			WithDetail("reason", ParseReasonNotAnArray)
	}
	// A top-level JSON null unmarshals into a nil slice without error; an
	// actual empty array yields a non-nil slice.
	if raw == nil {
		return nil, NewError(KindParseFailed, "model response is not a JSON array", nil).
			WithDetail("reason", ParseReasonNotAnArray)
	}

	cards := make([]CardCandidate, 0, len(raw))
	var invalid []int
	for i, element := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil {
			invalid = append(invalid, i)
			continue
		}

		front, frontOK := decodeNonEmptyString(fields["front"])
		back, backOK := decodeNonEmptyString(fields["back"])
		if !frontOK || !backOK {
			invalid = append(invalid, i)
			continue
		}

		cards = append(cards, CardCandidate{Front: front, Back: back})
	}

	if len(invalid) > 0 {
		return nil, NewError(KindParseFailed,
			fmt.Sprintf("%d card(s) are missing front/back text", len(invalid)), nil).
			WithDetail("reason", ParseReasonInvalidCardShape).
			WithDetail("indices", invalid)
	}

	if len(cards) > p.maxCards {
		cards = cards[:p.maxCards]
	}

	return cards, nil
}

func decodeNonEmptyString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}
