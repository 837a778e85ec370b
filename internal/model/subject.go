package model

import "time"

// Subject предмет из каталога. Каталог внешний: ядро только проверяет
// существование предмета и право преподавателя его вести.
type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
