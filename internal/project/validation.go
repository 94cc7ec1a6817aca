// AngelaMos | 2026
// validation.go

package project

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

type rules struct {
	Title        string `json:"title"        validate:"required,min=3,max=200"`
	Description  string `json:"description"  validate:"required,min=10,max=20000"`
	Location     string `json:"location"     validate:"omitempty,min=2,max=200"`
	DonationLink string `json:"donationLink" validate:"omitempty,http_url,max=2048"`
}

// formApplier parses a Form onto a Project and validates the result.
type formApplier struct {
	validator *validator.Validate
	strict    *bluemonday.Policy
}

func newFormApplier() *formApplier {
	return &formApplier{
		validator: core.NewValidator(),
		strict:    bluemonday.StrictPolicy(),
	}
}

// apply overwrites the submitted fields of p and validates the merged
// project. Any failure is returned as a validation AppError listing every
// offending field.
func (a *formApplier) apply(f Form, p *Project) error {
	var details []core.FieldError
	fail := func(field, msg string) {
		details = append(details, core.FieldError{Field: field, Message: msg})
	}

	if f.Title != nil {
		p.Title = strings.TrimSpace(*f.Title)
	}

	if f.Description != nil {
		p.Description = strings.TrimSpace(*f.Description)
	}

	if f.DateStart != nil {
		if t, ok := parseDate(*f.DateStart); ok {
			p.DateStart = t
		} else if strings.TrimSpace(*f.DateStart) != "" {
			fail("dateStart", "dateStart must be a valid date")
		} else {
			p.DateStart = time.Time{}
		}
	}

	if f.DateEnd != nil {
		switch t, ok := parseDate(*f.DateEnd); {
		case ok:
			p.DateEnd = &t
		case strings.TrimSpace(*f.DateEnd) == "":
			p.DateEnd = nil
		default:
			fail("dateEnd", "dateEnd must be a valid date")
		}
	}

	if f.Location != nil {
		p.Location = optional(*f.Location)
	}

	if f.DonationLink != nil {
		p.DonationLink = optional(*f.DonationLink)
	}

	if f.LocationCoords != nil {
		lat, lng, err := parseCoords(*f.LocationCoords)
		if err != "" {
			fail("locationCoords", err)
		} else {
			p.LocationLat, p.LocationLng = lat, lng
		}
	}

	if f.Urgent != nil {
		p.Urgent = isChecked(*f.Urgent)
	}

	if err := a.validator.Struct(rules{
		Title:        p.Title,
		Description:  a.text(p.Description),
		Location:     deref(p.Location),
		DonationLink: deref(p.DonationLink),
	}); err != nil {
		details = append(details, core.FieldErrors(err)...)
	}

	if p.DateStart.IsZero() && !hasField(details, "dateStart") {
		fail("dateStart", "dateStart is required")
	}

	if p.DateEnd != nil && !p.DateStart.IsZero() && p.DateEnd.Before(p.DateStart) {
		fail("dateEnd", "dateEnd must be on or after dateStart")
	}

	if len(details) > 0 {
		return core.ValidationError(details)
	}
	return nil
}

// text is the visible text of a description, used for length checks.
func (a *formApplier) text(description string) string {
	return strings.TrimSpace(html.UnescapeString(a.strict.Sanitize(description)))
}

// isChecked treats the usual truthy spellings and the checkbox default "on"
// as true. Anything else clears the flag.
func isChecked(v string) bool {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "on") {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseCoords(s string) (*float64, *float64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, ""
	}

	var coords []float64
	if err := json.Unmarshal([]byte(s), &coords); err != nil || len(coords) != 2 {
		return nil, nil, "locationCoords must be [lat, lng]"
	}

	lat, lng := coords[0], coords[1]
	if lat < -90 || lat > 90 {
		return nil, nil, "latitude must be between -90 and 90"
	}
	if lng < -180 || lng > 180 {
		return nil, nil, "longitude must be between -180 and 180"
	}

	return &lat, &lng, ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func hasField(details []core.FieldError, field string) bool {
	for _, d := range details {
		if d.Field == field {
			return true
		}
	}
	return false
}
