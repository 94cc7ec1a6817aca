// AngelaMos | 2026
// entity.go

package project

import (
	"time"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
)

type Project struct {
	ID           string     `db:"id"`
	Title        string     `db:"title"`
	Description  string     `db:"description"`
	DateStart    time.Time  `db:"date_start"`
	DateEnd      *time.Time `db:"date_end"`
	Location     *string    `db:"location"`
	LocationLat  *float64   `db:"location_lat"`
	LocationLng  *float64   `db:"location_lng"`
	DonationLink *string    `db:"donation_link"`
	Urgent       bool       `db:"urgent"`
	OrganizerID  string     `db:"organizer_id"`
	Image        *string    `db:"image"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// ManageableBy reports whether the identity may update or delete p.
func (p *Project) ManageableBy(identity *middleware.Identity) bool {
	if identity == nil {
		return false
	}
	return identity.Role == core.RoleAdmin || p.OrganizerID == identity.UserID
}

func (p *Project) Coords() *[2]float64 {
	if p.LocationLat == nil || p.LocationLng == nil {
		return nil
	}
	return &[2]float64{*p.LocationLat, *p.LocationLng}
}

// Person is the public view of a user referenced by a project.
type Person struct {
	ID    string `db:"id"    json:"id"`
	Name  string `db:"name"  json:"name"`
	Email string `db:"email" json:"email"`
}

// Detail is a project with its organizer and participants expanded.
// Participants are in join order.
type Detail struct {
	Project
	Organizer    Person
	Participants []Person
}
