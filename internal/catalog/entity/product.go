package entity

import "time"

// Product 商品（メニュー品目）
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	CompanyID   string    `json:"company_id" gorm:"size:32;not null;index"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Price       float64   `json:"price" gorm:"type:numeric(12,2);not null;default:0"` // 販売単価
	ImageKey    string    `json:"image_key,omitempty" gorm:"size:256"`                // MinIO object key
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedBy   string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Lines []ProductMaterialLine `json:"lines,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// ProductMaterialLine 商品配方行：一份商品消耗多少该食材。
// UnitWeight 是建行时从食材主数据拷贝的快照，之后主数据改动不回溯历史配方；
// 明示编辑时才更新
type ProductMaterialLine struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	ProductID  string    `json:"product_id" gorm:"size:32;not null;index"`
	MaterialID string    `json:"material_id" gorm:"size:32;not null;index"`
	Quantity   float64   `json:"quantity" gorm:"type:numeric(12,4);not null"`    // 每份用量（>0）
	UnitWeight float64   `json:"unit_weight" gorm:"type:numeric(12,4);not null"` // 単位重量快照，克（>0）
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (ProductMaterialLine) TableName() string {
	return "product_material_lines"
}
