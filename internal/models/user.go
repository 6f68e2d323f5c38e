package models

import (
	"time"
)

const (
	RoleFarmer   = "farmer"
	RoleConsumer = "consumer"
)

// User model. Revenue and Sales are only maintained for farmers.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Role         string    `bson:"role" json:"role"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password" json:"-"`
	Mobile       string    `bson:"mobile" json:"mobile"`
	Address      string    `bson:"address" json:"address"`
	Ratings      float64   `bson:"ratings" json:"ratings"`
	Revenue      float64   `bson:"revenue" json:"revenue"`
	Sales        int       `bson:"sales" json:"sales"`
	JoinedAt     time.Time `bson:"joined_at" json:"joinedAt"`
}

// IsFarmer reports whether the user sells produce.
func (u User) IsFarmer() bool {
	return u.Role == RoleFarmer
}

// ValidRole reports whether role is one of the supported account roles.
func ValidRole(role string) bool {
	return role == RoleFarmer || role == RoleConsumer
}

// ProfileUpdate carries the user fields that may be edited after signup.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Mobile  *string `json:"mobile"`
	Address *string `json:"address"`
}

// Empty reports whether the update would change nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Mobile == nil && p.Address == nil
}
