// file: internal/events/mentorship_events.go
package events

// Mentorship workflow event types.
const (
	MentorshipRequested = "mentorship.requested"
	MentorshipResponded = "mentorship.responded"
	MentorshipCompleted = "mentorship.completed"
	MentorshipCancelled = "mentorship.cancelled"
)

// MentorshipEvent fires on every workflow transition. UserID on the base
// event is the actor; MentorID and MenteeID identify the pair so handlers can
// notify the counterparty.
type MentorshipEvent struct {
	BaseEvent
	MentorshipID int64  `json:"mentorship_id"`
	MentorID     int64  `json:"mentor_id"`
	MenteeID     int64  `json:"mentee_id"`
	Status       string `json:"status"`
	Accepted     bool   `json:"accepted,omitempty"`
}

// NewMentorshipEvent builds a workflow event of the given type.
func NewMentorshipEvent(eventType string, actorID, mentorshipID, mentorID, menteeID int64, status string) *MentorshipEvent {
	return &MentorshipEvent{
		BaseEvent:    NewBaseEvent(eventType, &actorID),
		MentorshipID: mentorshipID,
		MentorID:     mentorID,
		MenteeID:     menteeID,
		Status:       status,
	}
}
