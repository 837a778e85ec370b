package model

import "time"

// SessionRecord общий документ заметок к бронированию.
// studentNotes пишет только студент, instructorSummary и homework только
// владелец слота; читают обе стороны целиком.
type SessionRecord struct {
	BookingID         int64     `json:"booking_id"`
	StudentNotes      string    `json:"student_notes"`
	InstructorSummary string    `json:"instructor_summary"`
	Homework          string    `json:"homework"`
	UpdatedAt         time.Time `json:"updated_at"`
}
