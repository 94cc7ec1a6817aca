// AngelaMos | 2026
// dto.go

package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"
)

// Form holds the raw submitted project fields. A nil field was not
// submitted; an empty string clears an optional field.
type Form struct {
	Title          *string
	Description    *string
	DateStart      *string
	DateEnd        *string
	Location       *string
	LocationCoords *string
	DonationLink   *string
	Urgent         *string
}

func (f *Form) fields() map[string]**string {
	return map[string]**string{
		"title":          &f.Title,
		"description":    &f.Description,
		"dateStart":      &f.DateStart,
		"dateEnd":        &f.DateEnd,
		"location":       &f.Location,
		"locationCoords": &f.LocationCoords,
		"donationLink":   &f.DonationLink,
		"urgent":         &f.Urgent,
	}
}

// FormFromValues reads a multipart or urlencoded submission.
func FormFromValues(values url.Values) Form {
	var f Form
	for name, dst := range f.fields() {
		if vs, ok := values[name]; ok && len(vs) > 0 {
			v := vs[0]
			*dst = &v
		}
	}
	return f
}

// FormFromJSON reads a JSON object submission. Strings are taken as is,
// null becomes an empty string, and any other value keeps its JSON text so
// that booleans and coordinate arrays parse the same way as form values.
func FormFromJSON(r io.Reader) (Form, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Form{}, fmt.Errorf("decode project body: %w", err)
	}

	var f Form
	for name, dst := range f.fields() {
		msg, ok := raw[name]
		if !ok {
			continue
		}

		var v string
		switch {
		case bytes.Equal(bytes.TrimSpace(msg), []byte("null")):
		case len(msg) > 0 && msg[0] == '"':
			if err := json.Unmarshal(msg, &v); err != nil {
				return Form{}, fmt.Errorf("decode %s: %w", name, err)
			}
		default:
			v = string(bytes.TrimSpace(msg))
		}
		*dst = &v
	}

	return f, nil
}

type ListQuery struct {
	Urgent bool
	Limit  int
}

type Response struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	DateStart      time.Time   `json:"dateStart"`
	DateEnd        *time.Time  `json:"dateEnd"`
	Location       *string     `json:"location"`
	LocationCoords *[2]float64 `json:"locationCoords"`
	DonationLink   *string     `json:"donationLink"`
	Urgent         bool        `json:"urgent"`
	Image          *string     `json:"image"`
	ImageURL       *string     `json:"imageUrl"`
	Organizer      Person      `json:"organizer"`
	Participants   []Person    `json:"participants"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

type JoinResponse struct {
	Message string `json:"message"`
	Joined  bool   `json:"joined"`
}

type LeaveResponse struct {
	Message string `json:"message"`
	Left    bool   `json:"left"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func ToResponse(d *Detail, imageURL func(*string) *string) Response {
	participants := d.Participants
	if participants == nil {
		participants = []Person{}
	}

	return Response{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		DateStart:      d.DateStart,
		DateEnd:        d.DateEnd,
		Location:       d.Location,
		LocationCoords: d.Coords(),
		DonationLink:   d.DonationLink,
		Urgent:         d.Urgent,
		Image:          d.Image,
		ImageURL:       imageURL(d.Image),
		Organizer:      d.Organizer,
		Participants:   participants,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func ToResponseList(details []Detail, imageURL func(*string) *string) []Response {
	out := make([]Response, 0, len(details))
	for i := range details {
		out = append(out, ToResponse(&details[i], imageURL))
	}
	return out
}
