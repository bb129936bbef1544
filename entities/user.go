package entities

type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Nickname  string  `gorm:"size:64;not null" json:"nickname"`
	Phone     *string `gorm:"size:32;uniqueIndex" json:"phone"`
	Email     *string `gorm:"size:128;uniqueIndex" json:"email"`
	Password  string  `gorm:"not null" json:"-"`
	AvatarURL string  `json:"avatarUrl"`
	Status    int     `gorm:"default:1" json:"-"`

	Timestamp
}
