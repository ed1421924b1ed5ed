// file: internal/models/mentorship.go
package models

import "time"

// MentorshipStatus is the closed set of lifecycle states for a mentorship.
type MentorshipStatus string

const (
	MentorshipPending   MentorshipStatus = "pending"
	MentorshipActive    MentorshipStatus = "active"
	MentorshipDeclined  MentorshipStatus = "declined"
	MentorshipCompleted MentorshipStatus = "completed"
	MentorshipCancelled MentorshipStatus = "cancelled"
)

// MentorshipType records the direction of the relationship, derived from the
// mentee's speaker type at request time.
type MentorshipType string

const (
	MentorshipNewToExperienced         MentorshipType = "new_to_experienced"
	MentorshipExperiencedToExperienced MentorshipType = "experienced_to_experienced"
)

// mentorshipTransitions is the legal-transition table. A status absent from
// the map is terminal.
var mentorshipTransitions = map[MentorshipStatus][]MentorshipStatus{
	MentorshipPending: {MentorshipActive, MentorshipDeclined, MentorshipCancelled},
	MentorshipActive:  {MentorshipCompleted, MentorshipCancelled},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s MentorshipStatus) CanTransitionTo(next MentorshipStatus) bool {
	for _, allowed := range mentorshipTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s MentorshipStatus) IsTerminal() bool {
	return len(mentorshipTransitions[s]) == 0
}

// Valid reports whether s is one of the known statuses.
func (s MentorshipStatus) Valid() bool {
	switch s {
	case MentorshipPending, MentorshipActive, MentorshipDeclined, MentorshipCompleted, MentorshipCancelled:
		return true
	}
	return false
}

// MentorshipTypeFor derives the relationship direction from the mentee's
// speaker type.
func MentorshipTypeFor(menteeSpeakerTypeID int64) MentorshipType {
	if menteeSpeakerTypeID == SpeakerTypeNew {
		return MentorshipNewToExperienced
	}
	return MentorshipExperiencedToExperienced
}

// Mentorship links a mentor and a mentee through the request lifecycle.
type Mentorship struct {
	ID       int64            `json:"id"`
	MentorID int64            `json:"mentor_id"`
	MenteeID int64            `json:"mentee_id"`
	Status   MentorshipStatus `json:"status"`
	Type     MentorshipType   `json:"type"`

	RequestMessage     string  `json:"request_message"`
	ResponseMessage    *string `json:"response_message,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	PreferredFrequency *string `json:"preferred_frequency,omitempty"`

	RequestedAt time.Time  `json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`

	FocusAreas []Expertise `json:"focus_areas,omitempty"`

	// Joined display fields.
	MentorName        string  `json:"mentor_name,omitempty"`
	MenteeName        string  `json:"mentee_name,omitempty"`
	MentorHeadshotURL *string `json:"mentor_headshot_url,omitempty"`
	MenteeHeadshotURL *string `json:"mentee_headshot_url,omitempty"`
}

// IsParticipant reports whether userID is the mentor or the mentee.
func (m *Mentorship) IsParticipant(userID int64) bool {
	return m.MentorID == userID || m.MenteeID == userID
}

// MentorshipExpertise is the (mentorship, expertise) focus-area row.
type MentorshipExpertise struct {
	MentorshipID int64 `json:"mentorship_id"`
	ExpertiseID  int64 `json:"expertise_id"`
}
