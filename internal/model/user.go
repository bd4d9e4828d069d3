package model

import "time"

// User stores system users with role-based access.
// Rol: "operario" | "supervisor" | "administrador"
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"uniqueIndex;not null"`
	Email        *string `gorm:"uniqueIndex"`
	PasswordHash string  `gorm:"not null"`
	Rol          string  `gorm:"type:varchar(20);not null;default:'operario'"`
	Activo       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
