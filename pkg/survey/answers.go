package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errBadAxisValue = errors.New("malformed axis value")

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

// NewValidationError wraps a boundary failure so HTTP layers can map it to
// a 400 without losing the cause.
func NewValidationError(reason error) error {
	return ValidationError{reason: reason}
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

type SelectionKind int

const (
	// SelectionNone means the axis was left unanswered. Distinct from an
	// explicit decline.
	SelectionNone SelectionKind = iota
	SelectionAnswered
	SelectionDeclined
)

// Selection is the resolved answer for one axis: unanswered, declined, or
// exactly one canonical category.
type Selection struct {
	Kind     SelectionKind
	Category string
}

// Answers is a validated, normalized submission. Each axis is single-select;
// normalization happens once at the boundary in ParseAnswers.
type Answers struct {
	DeclineAll bool
	Gender     Selection
	Race       Selection
	LGBTQ      Selection
	Disability Selection
	Veteran    Selection
	CAResident Selection
}

// Selection returns the resolved answer for the given axis.
func (a Answers) Selection(axis Axis) Selection {
	switch axis {
	case AxisGender:
		return a.Gender
	case AxisRace:
		return a.Race
	case AxisLGBTQ:
		return a.LGBTQ
	case AxisDisability:
		return a.Disability
	case AxisVeteran:
		return a.Veteran
	case AxisCAResident:
		return a.CAResident
	default:
		return Selection{}
	}
}

// RawAnswers is the wire shape of a submission's answer set. Axis fields
// accept either a JSON string or an array of strings; anything else is a
// validation error.
type RawAnswers struct {
	DeclineAll bool            `json:"decline_all,omitempty"`
	Gender     json.RawMessage `json:"gender,omitempty"`
	Race       json.RawMessage `json:"race,omitempty"`
	LGBTQ      json.RawMessage `json:"lgbtq,omitempty"`
	Disability json.RawMessage `json:"disability,omitempty"`
	Veteran    json.RawMessage `json:"veteran,omitempty"`
	CAResident json.RawMessage `json:"ca_resident,omitempty"`
}

// ParseAnswers normalizes a raw answer set against the axis catalog.
//
// Policy: every axis is single-select. When an array arrives, the first
// recognized value wins (so ["asian","white"] resolves to asian). An
// explicit decline marker anywhere in the array declines the axis.
// Unrecognized values are silently dropped and the axis is treated as
// unanswered, matching the permissive intake policy of the paper survey.
func ParseAnswers(raw RawAnswers, cat Catalog) (Answers, error) {
	if raw.DeclineAll {
		return Answers{DeclineAll: true}, nil
	}

	ans := Answers{}
	fields := []struct {
		axis Axis
		msg  json.RawMessage
		dst  *Selection
	}{
		{AxisGender, raw.Gender, &ans.Gender},
		{AxisRace, raw.Race, &ans.Race},
		{AxisLGBTQ, raw.LGBTQ, &ans.LGBTQ},
		{AxisDisability, raw.Disability, &ans.Disability},
		{AxisVeteran, raw.Veteran, &ans.Veteran},
		{AxisCAResident, raw.CAResident, &ans.CAResident},
	}

	for _, f := range fields {
		sel, err := parseSelection(f.axis, f.msg, cat)
		if err != nil {
			return Answers{}, err
		}
		*f.dst = sel
	}

	return ans, nil
}

func parseSelection(axis Axis, msg json.RawMessage, cat Catalog) (Selection, error) {
	if len(msg) == 0 {
		return Selection{Kind: SelectionNone}, nil
	}

	var values []string
	var single string
	if err := json.Unmarshal(msg, &single); err == nil {
		values = []string{single}
	} else if err := json.Unmarshal(msg, &values); err != nil {
		return Selection{}, ValidationError{reason: fmt.Errorf("axis %q expects a string or string array: %w", axis, errBadAxisValue)}
	}

	for i, v := range values {
		values[i] = strings.TrimSpace(strings.ToLower(v))
	}

	// A decline marker anywhere in the array wins, regardless of position.
	for _, v := range values {
		if v == DeclineMarker {
			return Selection{Kind: SelectionDeclined}, nil
		}
	}

	for _, v := range values {
		if v == "" {
			continue
		}
		if category, ok := cat.Resolve(axis, v); ok {
			return Selection{Kind: SelectionAnswered, Category: category}, nil
		}
	}

	// Nothing recognized: treated as unanswered, not an error.
	return Selection{Kind: SelectionNone}, nil
}
