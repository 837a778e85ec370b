package model

import "time"

type TeachingMode string

const (
	TeachingModeOnline   TeachingMode = "online"
	TeachingModeInPerson TeachingMode = "in_person"
)

type LessonType string

const (
	LessonTypeOneToOne LessonType = "one_to_one" // индивидуальное занятие, вместимость всегда 1
	LessonTypeGroup    LessonType = "group"      // групповое занятие, вместимость >= 2, предмет фиксирован
)

type Slot struct {
	ID           int64        `json:"id"`
	OwnerID      int64        `json:"owner_id"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      time.Time    `json:"end_time"`
	Capacity     int          `json:"capacity"`
	TeachingMode TeachingMode `json:"teaching_mode"`
	LessonType   LessonType   `json:"lesson_type"`
	Price        int          `json:"price"`                // в копейках/центах
	Location     *string      `json:"location,omitempty"`   // обязателен для in_person, иначе nil
	SubjectID    *int64       `json:"subject_id,omitempty"` // фиксирован для group, nil для one_to_one
	CreatedAt    time.Time    `json:"created_at"`
}

// SlotWithCount слот вместе с числом живых бронирований
type SlotWithCount struct {
	Slot
	BookedCount int `json:"booked_count"`
}

// IsFull проверяет что слот полностью забронирован
func (s *SlotWithCount) IsFull() bool {
	return s.BookedCount >= s.Capacity
}
