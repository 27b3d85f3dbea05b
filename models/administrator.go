package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Administrator is an account allowed to operate the HR records. Secrets never
// leave the server.
type Administrator struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username      string             `json:"username" bson:"username"`
	Email         string             `json:"email" bson:"email"`
	Password      string             `json:"-" bson:"password"`
	Role          string             `json:"role" bson:"role"`
	RefreshTokens string             `json:"-" bson:"refreshTokens,omitempty"`
	ResetTokens   string             `json:"-" bson:"resetTokens,omitempty"`
}

type AdministratorPayload struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=50,hasuppercase"`
	Role     string `json:"role" validate:"required,oneof=admin manager staff"`
}

// Claims is what the auth middleware stores in c.Locals for downstream handlers.
type Claims struct {
	AdminID primitive.ObjectID `json:"admin_id"`
	Email   string             `json:"email"`
	Role    string             `json:"role"`
}

func (p *AdministratorPayload) Normalize() {
	p.Username = trim(p.Username)
	p.Email = trim(p.Email)
	p.Role = trim(p.Role)
}
