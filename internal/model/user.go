package model

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64  `gorm:"autoCreateTime:milli"`

	Files []MediaFile `gorm:"foreignKey:UserID"`
	Stats Stats       `gorm:"foreignKey:UserID"`
}
