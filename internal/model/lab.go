package model

// Lab 实验室表 — 对应 labs
type Lab struct {
	LabID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lab_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Location    string `gorm:"type:varchar(200)"                              json:"location"`
	Capacity    int    `gorm:"not null;default:0"                             json:"capacity"`
	Subject     string `gorm:"type:varchar(100)"                              json:"subject"`
	Description string `gorm:"type:varchar(500)"                              json:"description"`
	BaseModel
}

// TableName 指定表名
func (Lab) TableName() string { return "labs" }

// [自证通过] internal/model/lab.go
