package errors

import "errors"

// ErrScheduleOverlap 时段冲突：同实验室同星期已存在重叠的时段
// 由 Repository 层的排他写入（行锁 + 重叠扫描）抛出
var ErrScheduleOverlap = errors.New("该时段与已有实验时段重叠")
