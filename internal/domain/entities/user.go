package entities

import (
	"fmt"
	"strings"
	"time"
)

// Role is the account type chosen at sign-up.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Roles lists every valid role in sign-up form order.
var Roles = []Role{RolePatient, RoleDoctor, RoleAdmin}

// ParseRole converts free-form input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// DisplayName is the label shown on the profile screens.
func (r Role) DisplayName() string {
	switch r {
	case RolePatient:
		return "Patient"
	case RoleDoctor:
		return "Doctor"
	case RoleAdmin:
		return "Admin"
	}
	return "Patient"
}

// User is an account. Registry records carry the plaintext password;
// session records never do.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Role           Role       `json:"role"`
	Password       string     `json:"password,omitempty"`
	Address        string     `json:"address,omitempty"`
	Age            int        `json:"age,omitempty"`
	BloodGroup     string     `json:"blood_group,omitempty"`
	MedicalHistory string     `json:"medical_history,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// WithoutPassword returns a copy suitable for the session record.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// SameEmail compares emails case-insensitively.
func (u User) SameEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}

// Registration is the sign-up form payload.
type Registration struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
	Role            Role   `json:"role"`
}

// ProfileUpdate holds the mutable profile fields. Nil means unchanged.
// Email and role are immutable after creation.
type ProfileUpdate struct {
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	Age            *int    `json:"age,omitempty"`
	BloodGroup     *string `json:"blood_group,omitempty"`
	MedicalHistory *string `json:"medical_history,omitempty"`
}

// Apply merges the update into u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.BloodGroup != nil {
		u.BloodGroup = *p.BloodGroup
	}
	if p.MedicalHistory != nil {
		u.MedicalHistory = *p.MedicalHistory
	}
}
