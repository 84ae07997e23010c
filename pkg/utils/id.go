package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID 生成 32 位十六进制主键。
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewRegistrationNumber 审批通过时签发的登记号，如 VR-2026-0A1B2C3D。
func NewRegistrationNumber(now time.Time) string {
	return fmt.Sprintf("VR-%d-%s", now.Year(), strings.ToUpper(NewID()[:8]))
}
