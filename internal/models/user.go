package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleStudent = "student"
	RoleParent  = "parent"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
)

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"passwordHash" json:"-"`
	Role         string               `bson:"role" json:"role"`
	Status       string               `bson:"status" json:"status"`
	ApprovedBy   *primitive.ObjectID  `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	StudentCode  string               `bson:"studentCode,omitempty" json:"studentCode,omitempty"`
	Children     []primitive.ObjectID `bson:"children" json:"children"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleParent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}

func (u *User) HasChild(id primitive.ObjectID) bool {
	for _, c := range u.Children {
		if c == id {
			return true
		}
	}
	return false
}

// CanDecide reports whether an actor role may approve or reject a target role.
// Admins decide teacher and parent accounts, teachers decide parent accounts.
func CanDecide(actorRole, targetRole string) bool {
	switch actorRole {
	case RoleAdmin:
		return targetRole == RoleTeacher || targetRole == RoleParent
	case RoleTeacher:
		return targetRole == RoleParent
	}
	return false
}

// Deletable roles: admin accounts are never removed.
func Deletable(role string) bool {
	return role == RoleTeacher || role == RoleParent || role == RoleStudent
}
