package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex:idx_users_email;not null"`
	Contact  string
	Password string `gorm:"not null"`
	Image    string `gorm:"not null"` // 对象存储 blob key
	Places   []Place
}

// PublicUser 不含密码哈希的用户视图
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Image    string `json:"image"`
	PlaceIDs []uint `json:"places"`
}

// Public 返回可对外暴露的用户数据
func (u *User) Public() PublicUser {
	ids := make([]uint, 0, len(u.Places))
	for _, p := range u.Places {
		ids = append(ids, p.ID)
	}
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Contact:  u.Contact,
		Image:    u.Image,
		PlaceIDs: ids,
	}
}
