package constants

// 物流状态常量
const (
	ShipmentStatusPending        = "pending"
	ShipmentStatusAssigned       = "assigned"
	ShipmentStatusPickedUp       = "picked_up"
	ShipmentStatusInTransit      = "in_transit"
	ShipmentStatusOutForDelivery = "out_for_delivery"
	ShipmentStatusDelivered      = "delivered"
	ShipmentStatusCancelled      = "cancelled"
	ShipmentStatusReturned       = "returned"
	ShipmentStatusNoResponse     = "no_response"
)

// ShipmentStatuses 全部物流状态（封闭集合）
var ShipmentStatuses = []string{
	ShipmentStatusPending,
	ShipmentStatusAssigned,
	ShipmentStatusPickedUp,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusCancelled,
	ShipmentStatusReturned,
	ShipmentStatusNoResponse,
}

// ReleasableShipmentStatuses 退货核验后才释放库存的状态
var ReleasableShipmentStatuses = []string{
	ShipmentStatusCancelled,
	ShipmentStatusReturned,
}

// 用户角色常量
const (
	RoleAdmin   = "admin"
	RoleSeller  = "seller"
	RoleManager = "manager"
)

// 对账触发来源
const (
	ReconcileTriggerSchedule = "schedule"
	ReconcileTriggerManual   = "manual"
	ReconcileTriggerRead     = "read"
)

// 异步队列常量
const (
	QueueDefault = "default"

	TaskProfitReconcile = "inventory:profit_reconcile"
)

// 缓存键
const (
	ProfitReconcileLockKey = "lock:profit_reconcile"
)
