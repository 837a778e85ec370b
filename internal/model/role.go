package model

// Role роль пользователя. Определяется identity-провайдером один раз на запрос,
// дальше передаётся явно во все операции ядра.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Caller аутентифицированный вызывающий: пара (userID, роль) из токена
type Caller struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}

// IsInstructor проверяет роль преподавателя
func (c Caller) IsInstructor() bool {
	return c.Role == RoleInstructor
}

// IsStudent проверяет роль студента
func (c Caller) IsStudent() bool {
	return c.Role == RoleStudent
}
