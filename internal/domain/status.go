package domain

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// AllowTransition 登记审核状态机的允许流转关系。
// APPROVED / REJECTED 为终态，不提供回退到 PENDING 的路径。
var AllowTransition = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// CanTransition 判断 from -> to 是否允许。
func CanTransition(from, to Status) bool {
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition 对登记应用审核结果并维护相关字段：
// ReviewedAt 在离开 PENDING 时写入；驳回必须带原因，通过时清空原因并签发登记号。
func ApplyTransition(r *VehicleRegistration, to Status, reason, regNumber string, now time.Time) error {
	if r == nil {
		return fmt.Errorf("registration is nil")
	}
	if !CanTransition(r.Status, to) {
		return fmt.Errorf("invalid registration status transition: %s -> %s", r.Status, to)
	}

	switch to {
	case StatusApproved:
		r.RejectionReason = ""
		r.RegistrationNumber = regNumber
	case StatusRejected:
		if reason == "" {
			return fmt.Errorf("rejection requires a reason")
		}
		r.RejectionReason = reason
	}

	r.Status = to
	if r.ReviewedAt == nil {
		t := now
		r.ReviewedAt = &t
	}
	return nil
}
