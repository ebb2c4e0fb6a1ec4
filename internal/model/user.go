package model

import (
	"time"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
	RoleUser  UserRole = "user"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'user'" json:"role"`

	// Points 只由积分流水写入路径递增/递减；OrderPoints 是根据已完成订单
	// 全量重算出来的组成部分，两者相加才是可用余额
	Points      int `gorm:"default:0" json:"points"`
	OrderPoints int `gorm:"default:0" json:"orderPoints"`

	ConsecutiveCheckIns int        `gorm:"default:0" json:"consecutiveCheckIns"`
	LastCheckInDate     *time.Time `json:"lastCheckInDate,omitempty"`
	SkipCount           int        `gorm:"default:0" json:"skipCount"`
	MaxSkips            int        `gorm:"default:3" json:"maxSkips"`
	LastSkipDate        *time.Time `json:"-"` // 跳过次数按自然日重置

	ReferralCode *string `gorm:"size:50;uniqueIndex" json:"referralCode,omitempty"`
	ReferredByID *uint   `gorm:"index" json:"referredBy,omitempty"`

	TotalOrderValue float64 `gorm:"default:0" json:"totalOrderValue"`

	IsVerified bool      `gorm:"default:false" json:"isVerified"`
	Disabled   bool      `gorm:"default:false" json:"disabled"`
	LastLogin  time.Time `json:"lastLogin"`
	LastSeen   time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// Balance 返回可用余额（流水增量部分 + 订单重算部分）
func (u *User) Balance() int {
	return u.Points + u.OrderPoints
}
