// Package event 定义在事件总线上传递的消息
package event

import "time"

// 状态流转事件类型
const (
	TypeClaimed         = "claimed"
	TypeClaimRolledBack = "claim_rolled_back"
	TypeAccepted        = "accepted"
	TypeRejected        = "rejected"
	TypeStatusChanged   = "status_changed"
)

// LifecycleEvent 请求状态流转事件
// 推送给请求发布者的在线连接
type LifecycleEvent struct {
	Type      string    `json:"type"`
	RequestID uint      `json:"request_id"`
	OwnerID   uint      `json:"owner_id"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}
