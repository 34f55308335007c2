package entity

import "time"

// Company 租户（运营公司）。所有业务数据按 company_id 隔离
type Company struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Subdomain string    `json:"subdomain" gorm:"size:64;not null;uniqueIndex"`
	Status    string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

// Store 门店
type Store struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	CompanyID string    `json:"company_id" gorm:"size:32;not null;index"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Address   string    `json:"address,omitempty" gorm:"size:256"`
	Status    string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

func (Store) TableName() string {
	return "stores"
}

// UserRole 用户角色
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User 系统用户，归属一个公司，可选归属门店
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	CompanyID    string    `json:"company_id" gorm:"size:32;not null;index"`
	StoreID      *string   `json:"store_id,omitempty" gorm:"size:32"`
	Name         string    `json:"name" gorm:"size:64;not null"`
	Email        string    `json:"email" gorm:"size:128;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Role         string    `json:"role" gorm:"size:16;not null;default:staff"`
	Status       string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Store   *Store   `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

func (User) TableName() string {
	return "users"
}
