package models

import "gorm.io/gorm"

type Place struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Address     string `gorm:"not null"` // 地理编码后的规范地址
	Lat         float64
	Lng         float64
	Image       string `gorm:"not null"` // 对象存储 blob key
	UserID      uint   `gorm:"index;not null;<-:create"`
	LikedUsers  []User `gorm:"many2many:place_likes"`
}

// Location 坐标
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceView 对外返回的地点视图
type PlaceView struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Location     Location `json:"location"`
	Image        string   `json:"image"`
	UserID       uint     `json:"userId"`
	LikedUserIDs []uint   `json:"likedUserIds"`
}

// View 返回地点的 API 表示
func (p *Place) View() PlaceView {
	liked := make([]uint, 0, len(p.LikedUsers))
	for _, u := range p.LikedUsers {
		liked = append(liked, u.ID)
	}
	return PlaceView{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Address:      p.Address,
		Location:     Location{Lat: p.Lat, Lng: p.Lng},
		Image:        p.Image,
		UserID:       p.UserID,
		LikedUserIDs: liked,
	}
}
