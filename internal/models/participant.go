package models

import "gorm.io/gorm"

// Role is a participant's role within a single task list. Ownership of a
// list is a separate relation (TaskList.OwnerID), not a Role value.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleViewer Role = "Viewer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

type Participant struct {
	gorm.Model

	UserID     uint `gorm:"not null;uniqueIndex:idx_user_list"`
	TaskListID uint `gorm:"not null;uniqueIndex:idx_user_list"`
	Role       Role `gorm:"not null"`

	// Relationships
	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TaskList TaskList `gorm:"foreignKey:TaskListID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
