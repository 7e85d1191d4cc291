package models

const (
	RoleOwner = "owner"
	RoleUser  = "user"
)

type User struct {
	Base
	Username    string `json:"username" gorm:"size:191;uniqueIndex;not null"`
	Email       string `json:"email" gorm:"size:191;uniqueIndex;not null"`
	PhoneNumber string `json:"phoneNumber" gorm:"size:32;uniqueIndex;not null"`
	Password    string `json:"-" gorm:"not null"`
	Address     string `json:"address,omitempty"`
	Image       string `json:"image,omitempty"`
	Role        string `json:"role" gorm:"size:16;not null;default:user"`
}

func (u User) IsOwner() bool {
	return u.Role == RoleOwner
}

// Bootstrap holds one-time claims. The row named BootstrapOwner exists once
// the first owner has been created.
type Bootstrap struct {
	Name   string `gorm:"primaryKey;size:64"`
	UserID uint
}

const BootstrapOwner = "owner"

type RegisterData struct {
	Username    string `json:"username" binding:"required,min=3"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileData binds from JSON or multipart form; empty fields keep the
// stored value.
type UpdateProfileData struct {
	Username    string `json:"username" form:"username" binding:"omitempty,min=3"`
	Email       string `json:"email" form:"email" binding:"omitempty,email"`
	Address     string `json:"address" form:"address"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" binding:"omitempty,phone"`
	Password    string `json:"password" form:"password" binding:"omitempty,min=6,max=72"`
}
