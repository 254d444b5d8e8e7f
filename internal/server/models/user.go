package models

import "time"

// Defaults applied to preference fields on signup.
const (
	DefaultEmailNotifications = true
	DefaultReportSchedule     = "weekly"
)

// User is the full identity record as kept by the credential store.
type User struct {
	ID                 string    `db:"id" json:"id"`
	Email              string    `db:"email" json:"email"`
	Name               string    `db:"name" json:"name"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	EmailNotifications bool      `db:"email_notifications" json:"email_notifications"`
	ReportSchedule     string    `db:"report_schedule" json:"report_schedule"`
}

// UserProjection is a User without credential material. It is the only
// user shape that leaves the store boundary on id lookups.
type UserProjection struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	CreatedAt          time.Time `json:"created_at"`
	EmailNotifications bool      `json:"email_notifications"`
	ReportSchedule     string    `json:"report_schedule"`
}

// Projection strips the password hash.
func (u *User) Projection() *UserProjection {
	return &UserProjection{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		CreatedAt:          u.CreatedAt,
		EmailNotifications: u.EmailNotifications,
		ReportSchedule:     u.ReportSchedule,
	}
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name               *string
	EmailNotifications *bool
	ReportSchedule     *string
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.EmailNotifications == nil && u.ReportSchedule == nil
}
