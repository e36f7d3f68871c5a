package model

import "time"

type Category struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Category) TableName() string {
	return "categories"
}
