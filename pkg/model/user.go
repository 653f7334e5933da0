package model

import "time"

const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

const (
	UserActive   = "ACTIVE"
	UserInactive = "INACTIVE"
	UserBlocked  = "BLOCKED"
)

type User struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email      string    `json:"email" bson:"email" validate:"required,email"`
	Password   string    `json:"-" bson:"password,omitempty" validate:"omitempty,min=8"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Address    string    `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,max=200"`
	Role       string    `json:"role" bson:"role" validate:"required,oneof=USER ADMIN SUPER_ADMIN"`
	IsActive   string    `json:"isActive" bson:"isActive" validate:"required,oneof=ACTIVE INACTIVE BLOCKED"`
	IsVerified bool      `json:"isVerified" bson:"isVerified"`
	IsDeleted  bool      `json:"isDeleted" bson:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt" validate:"omitempty"`
}

// UserUpdate carries the caller-editable subset of User fields.
type UserUpdate struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,e164"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=200"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=8"`
	OldPassword string `json:"oldPassword,omitempty"`
}

type UserStatusUpdate struct {
	IsActive string `json:"isActive" validate:"required,oneof=ACTIVE INACTIVE BLOCKED"`
}
