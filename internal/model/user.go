package model

import "time"

// User данные пользователя из identity-провайдера, ядро их не создаёт
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
