package scorefeed

import (
	"bytes"
	"fmt"
	"strconv"
)

type feedPayload struct {
	Sports map[string]sportInfo     `json:"sports"`
	Events map[string]*eventPayload `json:"events"`
}

type sportInfo struct {
	Name string `json:"name"`
}

type eventPayload struct {
	Desc    *eventDesc                    `json:"desc"`
	Score   *eventScore                   `json:"score"`
	Markets map[string]map[string]outcome `json:"markets"`
}

type eventDesc struct {
	Scheduled   int64        `json:"scheduled" validate:"gt=0"`
	Sport       string       `json:"sport" validate:"required"`
	Competitors []competitor `json:"competitors" validate:"min=2,dive"`
}

type competitor struct {
	Name string `json:"name" validate:"required"`
}

type eventScore struct {
	HomeScore    flexInt       `json:"home_score"`
	AwayScore    flexInt       `json:"away_score"`
	PeriodScores []periodScore `json:"period_scores"`
}

type periodScore struct {
	HomeScore flexInt `json:"home_score"`
	AwayScore flexInt `json:"away_score"`
}

type outcome struct {
	K flexFloat `json:"k"`
}

// flexInt accepts a JSON number or a numeric string. Valid is false for
// null or an absent field.
type flexInt struct {
	Value int
	Valid bool
}

func (v *flexInt) UnmarshalJSON(raw []byte) error {
	text := unquote(raw)
	if text == "" || text == "null" {
		*v = flexInt{}
		return nil
	}
	parsed, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("invalid integer %q", text)
	}
	*v = flexInt{Value: parsed, Valid: true}
	return nil
}

func (v flexInt) orUnknown(unknown int) int {
	if !v.Valid {
		return unknown
	}
	return v.Value
}

type flexFloat struct {
	Value float64
	Valid bool
}

func (v *flexFloat) UnmarshalJSON(raw []byte) error {
	text := unquote(raw)
	if text == "" || text == "null" {
		*v = flexFloat{}
		return nil
	}
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %q", text)
	}
	*v = flexFloat{Value: parsed, Valid: true}
	return nil
}

func unquote(raw []byte) string {
	return string(bytes.Trim(bytes.TrimSpace(raw), `"`))
}
