package domain

import "time"

const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
)

// Regions a user can belong to. Used for dashboard and report filtering.
const (
	RegionEMEA = "EMEA"
	RegionAMER = "AMER"
	RegionAPAC = "APAC"
)

// User models an employee or manager in the tracker. ManagerID is a
// self-referential link: zero or one manager per user, many reports per
// manager. A user must never be their own manager.
type User struct {
	ID                 string    `json:"id" bson:"_id,omitempty"`
	Email              string    `json:"email" bson:"email"`
	FirstName          string    `json:"first_name" bson:"first_name"`
	LastName           string    `json:"last_name" bson:"last_name"`
	Position           string    `json:"position,omitempty" bson:"position,omitempty"`
	Role               string    `json:"role" bson:"role"`
	Region             string    `json:"region" bson:"region"`
	ManagerID          string    `json:"manager_id,omitempty" bson:"manager_id,omitempty"`
	PasswordHash       string    `json:"-" bson:"password_hash"`
	EmailNotifications bool      `json:"email_notifications" bson:"email_notifications"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
}

// FullName returns "First Last" for display and notification rendering.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleManager
}

// ValidRegion reports whether region is one of the supported regions.
func ValidRegion(region string) bool {
	switch region {
	case RegionEMEA, RegionAMER, RegionAPAC:
		return true
	}
	return false
}
