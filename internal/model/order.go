package model

const (
	// WordPress/WooCommerce 侧的订单生命周期状态，completed 是唯一计分的终态
	OrderStatusCompleted = "completed"
	// 删除事件只做软废弃，保留审计
	OrderStatusDiscarded = "discarded"
)

// ExternalOrder 外部商城同步来的订单，wordpress_order_id 是幂等键
// swagger:model ExternalOrder
type ExternalOrder struct {
	BaseModel
	WordpressOrderID uint    `gorm:"uniqueIndex;not null" json:"wordpressOrderId"`
	Status           string  `gorm:"size:50;index" json:"status"`
	CustomerEmail    string  `gorm:"size:100;index" json:"customerEmail"`
	Total            float64 `gorm:"default:0" json:"total"`
	IsProcessed      bool    `gorm:"default:false" json:"isProcessed"`
	ProcessingError  string  `gorm:"size:500" json:"processingError,omitempty"`
}

func (ExternalOrder) TableName() string {
	return "external_orders"
}
