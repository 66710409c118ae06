package models

import "time"

// ReconcileRun 利润对账任务执行记录
type ReconcileRun struct {
	ID         uint       `gorm:"primarykey" json:"id"`                                  // 主键
	RunID      string     `gorm:"type:varchar(64);uniqueIndex" json:"run_id"`            // 执行ID
	Trigger    string     `gorm:"type:varchar(20);not null" json:"trigger"`              // 触发来源
	Scanned    int        `gorm:"not null;default:0" json:"scanned"`                     // 扫描订单数
	Corrected  int        `gorm:"not null;default:0" json:"corrected"`                   // 修正订单数
	Skipped    int        `gorm:"not null;default:0" json:"skipped"`                     // 跳过订单数
	Failed     int        `gorm:"not null;default:0" json:"failed"`                      // 写入失败数
	Error      string     `gorm:"column:error_message;type:text" json:"error,omitempty"` // 错误信息
	StartedAt  time.Time  `gorm:"index" json:"started_at"`                               // 开始时间
	FinishedAt *time.Time `gorm:"index" json:"finished_at,omitempty"`                    // 结束时间
}

// TableName 指定表名
func (ReconcileRun) TableName() string {
	return "reconcile_runs"
}
