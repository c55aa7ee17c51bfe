package domain

import "time"

type Role string

const (
	RolePlayer     Role = "player"
	RoleFieldOwner Role = "field_owner"
	RoleStaff      Role = "staff"
)

// User is the minimal identity record the booking engine needs.
// Registration, OTP and profile management are external collaborators.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"type:varchar(120)" json:"full_name"`
	Email     string    `gorm:"type:varchar(120);uniqueIndex" json:"email"`
	Role      Role      `gorm:"type:varchar(20);default:'player'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
