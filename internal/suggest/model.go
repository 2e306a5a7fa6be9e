package suggest

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Preferences is what a traveller asks for. Experiences keep their order and may repeat.
type Preferences struct {
	Location    string   `json:"location"`
	Budget      string   `json:"budget"`
	Experiences []string `json:"experiences"`
}

// Popularity describes how well known a place is.
type Popularity string

const (
	PopularityVeryPopular Popularity = "very popular"
	PopularityPopular     Popularity = "popular"
	PopularityModerate    Popularity = "moderate"
	PopularityHiddenGem   Popularity = "hidden gem"
)

// Known reports whether p is one of the labels requested in the prompt.
// The provider is free to answer with something else; nothing rejects it.
func (p Popularity) Known() bool {
	switch p {
	case PopularityVeryPopular, PopularityPopular, PopularityModerate, PopularityHiddenGem:
		return true
	}
	return false
}

// Place is a single recommendation as returned by the provider.
type Place struct {
	Name          string     `json:"name"`
	Lat           float64    `json:"lat"`
	Lng           float64    `json:"lng"`
	Description   string     `json:"description"`
	EstimatedCost Cost       `json:"estimated_cost"`
	Popularity    Popularity `json:"popularity"`
}

// Cost holds the provider's estimated_cost value exactly as it was emitted.
// Providers answer with either a string ("1500 JPY") or a bare number (1500).
type Cost struct {
	raw json.RawMessage
}

// StringCost builds a Cost carrying a JSON string.
func StringCost(s string) Cost {
	b, _ := json.Marshal(s)
	return Cost{raw: b}
}

// NumberCost builds a Cost carrying a JSON number.
func NumberCost(f float64) Cost {
	return Cost{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

func (c *Cost) UnmarshalJSON(data []byte) error {
	c.raw = append(c.raw[:0], bytes.TrimSpace(data)...)
	return nil
}

func (c Cost) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// IsNumber reports whether the provider emitted a bare number.
func (c Cost) IsNumber() bool {
	if len(c.raw) == 0 {
		return false
	}
	switch c.raw[0] {
	case '"', 'n', 't', 'f', '{', '[':
		return false
	}
	return true
}

// String renders the cost for display: the unquoted string or the number text.
func (c Cost) String() string {
	if len(c.raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(c.raw, &s); err == nil {
		return s
	}
	return string(c.raw)
}
