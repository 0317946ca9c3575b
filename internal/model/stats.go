package model

type Stats struct {
	UserID        string `gorm:"primaryKey" json:"-"`
	UsedStorage   int64  `json:"usedStorage"`
	UploadedFiles int    `json:"uploadedFiles"`
}
