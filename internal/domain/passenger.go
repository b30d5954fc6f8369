package domain

import "strings"

type PassengerType string

const (
	PassengerAdult  PassengerType = "adult"
	PassengerChild  PassengerType = "child"
	PassengerInfant PassengerType = "infant"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
	GenderUnset  Gender = ""
)

// ParseGender normalizes a raw gender string from the request boundary.
// Anything outside the known set collapses to GenderUnset so that an
// unexpected value fails roster validation instead of leaking inward.
func ParseGender(raw string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	case GenderOther:
		return GenderOther
	default:
		return GenderUnset
	}
}

type Passenger struct {
	Index         int           `json:"index"`
	Type          PassengerType `json:"type"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Gender        Gender        `json:"gender"`
	ContactNumber string        `json:"contact_number,omitempty"`
}

// Roster is the ordered passenger list for one booking. Its length is fixed
// by the search counts at construction time.
type Roster []Passenger

// NewRoster builds the fixed-size roster skeleton: adults first, then
// children, then infants, fields blank until the traveller fills them in.
func NewRoster(adults, children, infants int) Roster {
	roster := make(Roster, 0, adults+children+infants)
	add := func(n int, t PassengerType) {
		for i := 0; i < n; i++ {
			roster = append(roster, Passenger{Index: len(roster), Type: t})
		}
	}
	add(adults, PassengerAdult)
	add(children, PassengerChild)
	add(infants, PassengerInfant)
	return roster
}

// Complete reports whether every passenger has a trimmed non-empty first and
// last name and a set gender, and the passenger at index 0 additionally has a
// contact number. Only index 0 carries the contact requirement.
func (r Roster) Complete() bool {
	if len(r) == 0 {
		return false
	}
	for _, p := range r {
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
			return false
		}
		if p.Gender == GenderUnset {
			return false
		}
		if p.Index == 0 && strings.TrimSpace(p.ContactNumber) == "" {
			return false
		}
	}
	return true
}

// Counts returns the number of passengers per category.
func (r Roster) Counts() (adults, children, infants int) {
	for _, p := range r {
		switch p.Type {
		case PassengerChild:
			children++
		case PassengerInfant:
			infants++
		default:
			adults++
		}
	}
	return adults, children, infants
}
