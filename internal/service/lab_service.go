package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/model"
	"labtrack/backend/internal/repository"
)

// ── 实验室模块业务错误 ──

var (
	ErrLabNotFound      = errors.New("实验室不存在")
	ErrLabNameTaken     = errors.New("实验室名称已存在")
	ErrLabHasDependents = errors.New("实验室下存在时段或签到记录，无法删除")
)

// LabService 实验室业务接口
type LabService interface {
	Create(ctx context.Context, req *dto.CreateLabRequest, callerID string) (*dto.LabResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LabResponse, error)
	List(ctx context.Context, req *dto.LabListRequest) ([]dto.LabResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLabRequest, callerID string) (*dto.LabResponse, error)
	Delete(ctx context.Context, id string) error
}

type labService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLabService 创建 LabService 实例
func NewLabService(repo *repository.Repository, logger *zap.Logger) LabService {
	return &labService{repo: repo, logger: logger}
}

func (s *labService) Create(ctx context.Context, req *dto.CreateLabRequest, callerID string) (*dto.LabResponse, error) {
	lab := &model.Lab{
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Subject:     req.Subject,
		Description: req.Description,
	}
	lab.CreatedBy = &callerID
	lab.UpdatedBy = &callerID

	if err := s.repo.Lab.Create(ctx, lab); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLabNameTaken
		}
		s.logger.Error("创建实验室失败", zap.Error(err))
		return nil, err
	}

	return toLabResponse(lab), nil
}

func (s *labService) GetByID(ctx context.Context, id string) (*dto.LabResponse, error) {
	lab, err := s.repo.Lab.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabNotFound
		}
		s.logger.Error("查询实验室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toLabResponse(lab), nil
}

func (s *labService) List(ctx context.Context, req *dto.LabListRequest) ([]dto.LabResponse, error) {
	labs, err := s.repo.Lab.List(ctx, req.Subject)
	if err != nil {
		s.logger.Error("列出实验室失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LabResponse, 0, len(labs))
	for i := range labs {
		result = append(result, *toLabResponse(&labs[i]))
	}
	return result, nil
}

func (s *labService) Update(ctx context.Context, id string, req *dto.UpdateLabRequest, callerID string) (*dto.LabResponse, error) {
	lab, err := s.repo.Lab.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabNotFound
		}
		s.logger.Error("查询实验室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		lab.Name = *req.Name
	}
	if req.Location != nil {
		lab.Location = *req.Location
	}
	if req.Capacity != nil {
		lab.Capacity = *req.Capacity
	}
	if req.Subject != nil {
		lab.Subject = *req.Subject
	}
	if req.Description != nil {
		lab.Description = *req.Description
	}
	lab.UpdatedBy = &callerID

	if err := s.repo.Lab.Update(ctx, lab); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLabNameTaken
		}
		s.logger.Error("更新实验室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toLabResponse(lab), nil
}

// Delete 删除实验室；下挂时段或签到记录时拒绝
func (s *labService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Lab.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLabNotFound
		}
		s.logger.Error("查询实验室失败", zap.String("id", id), zap.Error(err))
		return err
	}

	sessions, attendance, err := s.repo.Lab.CountDependents(ctx, id)
	if err != nil {
		s.logger.Error("统计实验室依赖失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if sessions > 0 || attendance > 0 {
		return ErrLabHasDependents
	}

	if err := s.repo.Lab.Delete(ctx, id); err != nil {
		s.logger.Error("删除实验室失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toLabResponse(lab *model.Lab) *dto.LabResponse {
	return &dto.LabResponse{
		ID:          lab.LabID,
		Name:        lab.Name,
		Location:    lab.Location,
		Capacity:    lab.Capacity,
		Subject:     lab.Subject,
		Description: lab.Description,
		CreatedAt:   lab.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   lab.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
