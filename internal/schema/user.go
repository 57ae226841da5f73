package schema

import "time"

type UserLevel string

const (
	UserLevelAdmin UserLevel = "admin"
	UserLevelUser  UserLevel = "user"
)

type User struct {
	UserID       int       `json:"user_id" validate:"required,gt=0"`
	Username     string    `json:"username" validate:"required,min=1,max=255"`
	RegisteredAt time.Time `json:"registered_at" validate:"required"`
	UserLevel    UserLevel `json:"user_level" validate:"omitempty,oneof=admin user"`
}

func ValidateUser(u User) error {
	return validateStruct(u)
}
