package dto

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts 接受的日期格式
var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseDate 解析 YYYY-MM-DD 或 RFC3339 日期，结果统一为 UTC
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期 %q", s)
}
