package model

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	SlotID    int64     `json:"slot_id"`
	StudentID int64     `json:"student_id"`
	SubjectID int64     `json:"subject_id"`
	Note      string    `json:"note,omitempty"` // свободный текст студента при записи
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Slot    *Slot `json:"slot,omitempty"`
	Student *User `json:"student,omitempty"`
	Owner   *User `json:"owner,omitempty"`
}
