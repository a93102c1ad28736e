package models

import "time"

// CompanyFollow links a user to a company they follow
type CompanyFollow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_company_follow"`
	CompanyID  uint      `json:"company_id" gorm:"index;uniqueIndex:idx_user_company_follow"`
	FollowedAt time.Time `json:"followed_at"`
}
