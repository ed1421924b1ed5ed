// file: internal/models/search.go
package models

// Speaker directory sort keys.
const (
	SpeakerSortName      = "name"
	SpeakerSortNewest    = "newest"
	SpeakerSortExpertise = "expertise"
)

// SpeakerPageSize is the fixed directory page size.
const SpeakerPageSize = 12

// SpeakerFilter carries the speaker-directory filter set into the repository
// layer. Nil pointer fields mean "no filter".
type SpeakerFilter struct {
	SearchTerm    string  `json:"search_term,omitempty"`
	SpeakerTypeID *int64  `json:"speaker_type_id,omitempty"`
	ExpertiseIDs  []int64 `json:"expertise_ids,omitempty"`
	AvailableNow  *bool   `json:"available_now,omitempty"`

	// ExcludeUserID drops the requesting user from mentor-browse results.
	ExcludeUserID *int64 `json:"-"`

	// RequireMentorCapacity keeps only speakers available for mentoring whose
	// active mentee count is below their max_mentees.
	RequireMentorCapacity bool `json:"-"`

	Sort string `json:"sort,omitempty"`
}
