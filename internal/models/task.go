package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Completed   bool `gorm:"not null;default:false"`
	TaskListID  uint `gorm:"not null;index"`

	// Relationships
	TaskList TaskList `gorm:"foreignKey:TaskListID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
