package auth

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims полезная нагрузка токена identity-провайдера: кто вызывает и с какой ролью
type Claims struct {
	UserID int64      `json:"user_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager разбирает и выпускает токены. Ядро не аутентифицирует само,
// оно только читает пару (userID, роль) из подписанного токена.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate выпускает подписанный токен для пользователя
func (m *Manager) Generate(userID int64, role model.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "tutor_market",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Parse проверяет токен и возвращает аутентифицированного вызывающего
func (m *Manager) Parse(tokenString string) (model.Caller, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return model.Caller{}, fmt.Errorf("parse token: %w", err)
	}

	switch claims.Role {
	case model.RoleStudent, model.RoleInstructor, model.RoleAdmin:
	default:
		return model.Caller{}, fmt.Errorf("unknown role %q in token", claims.Role)
	}

	return model.Caller{UserID: claims.UserID, Role: claims.Role}, nil
}
