package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

// ValidateCategory 验证工单分类（不能为空且长度合理）
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category is empty")
	}
	if len(category) > 64 {
		return fmt.Errorf("category too long, max 64 characters")
	}
	return nil
}

// ValidatePriority 只接受 P1-P4
func ValidatePriority(p string) error {
	if err := validate.Var(p, "required,oneof=P1 P2 P3 P4"); err != nil {
		return fmt.Errorf("invalid priority %q", p)
	}
	return nil
}

// ValidateTicketStatus 验证工单状态
func ValidateTicketStatus(s string) error {
	if err := validate.Var(s, "required,oneof=NEW TRIAGED IN_PROGRESS WAITING_ON_USER RESOLVED CLOSED"); err != nil {
		return fmt.Errorf("invalid ticket status %q", s)
	}
	return nil
}

// ValidateSessionWindow 结束时间必须晚于开始时间
func ValidateSessionWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start and end are required")
	}
	if !end.After(start) {
		return fmt.Errorf("end must be after start")
	}
	return nil
}
