package models

import "time"

// UpdateCheckpoint records the trading dates used by one completed batch run.
// Rows are append-only; the most recent LastUpdateTime wins.
type UpdateCheckpoint struct {
	Base            `bson:",inline"`
	LastUpdateDate  string    `gorm:"type:varchar(10);not null" json:"last_update_date" bson:"last_update_date"`
	LastMonthlyDate string    `gorm:"type:varchar(10);not null" json:"last_monthly_date" bson:"last_monthly_date"`
	LastUpdateTime  time.Time `gorm:"not null;index" json:"last_update_time" bson:"last_update_time"`
	TotalUpdates    int       `gorm:"not null;default:1" json:"total_updates" bson:"total_updates"`
}

// TableName pins the table to "update_history".
func (UpdateCheckpoint) TableName() string { return "update_history" }
