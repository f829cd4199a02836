package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

var ErrJobNotFound = apperrors.NotFound("Job not found")

// JobService 招聘信息业务接口
type JobService interface {
	Create(ctx context.Context, req *dto.CreateJobRequest, caller *authz.Principal) (*dto.JobResponse, error)
	List(ctx context.Context, caller *authz.Principal) ([]dto.JobResponse, error)
	Get(ctx context.Context, id string, caller *authz.Principal) (*dto.JobResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateJobRequest, caller *authz.Principal) (*dto.JobResponse, error)
	Delete(ctx context.Context, id string, caller *authz.Principal) error
}

type jobService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewJobService 创建 JobService 实例
func NewJobService(repo *repository.Repository, logger *zap.Logger) JobService {
	return &jobService{repo: repo, logger: logger}
}

// Create 职位归属发布者的学院；superadmin 发布的为全局职位
func (s *jobService) Create(ctx context.Context, req *dto.CreateJobRequest, caller *authz.Principal) (*dto.JobResponse, error) {
	if caller == nil {
		return nil, authz.ErrUnauthenticated
	}

	job := &model.Job{
		Title:       req.Title,
		Description: req.Description,
		Company:     req.Company,
		Location:    req.Location,
		Type:        req.Type,
		Eligibility: req.Eligibility,
		ApplyLink:   req.ApplyLink,
		PostedBy:    caller.Name,
		PostedByID:  caller.UserID,
		BaseModel:   model.BaseModel{CreatedBy: &caller.UserID},
	}
	if !caller.IsSuperAdmin() {
		if caller.CollegeID == "" {
			return nil, authz.ErrNoCollege
		}
		job.CollegeID = model.StrPtr(caller.CollegeID)
	}

	if err := s.repo.Job.Create(ctx, job); err != nil {
		s.logger.Error("发布职位失败", zap.Error(err))
		return nil, err
	}

	resp := toJobResponse(job)
	return &resp, nil
}

// List 本学院职位与全局职位
func (s *jobService) List(ctx context.Context, caller *authz.Principal) ([]dto.JobResponse, error) {
	collegeID, all, err := authz.ScopeFilter(caller)
	if err != nil {
		return nil, err
	}

	jobs, err := s.repo.Job.List(ctx, repository.Scope{CollegeID: collegeID, All: all, IncludeGlobal: true})
	if err != nil {
		s.logger.Error("查询职位列表失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		list = append(list, toJobResponse(&jobs[i]))
	}
	return list, nil
}

func (s *jobService) Get(ctx context.Context, id string, caller *authz.Principal) (*dto.JobResponse, error) {
	job, err := s.repo.Job.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	if err := authz.Authorize(caller, job, authz.RelationRead); err != nil {
		return nil, err
	}
	resp := toJobResponse(job)
	return &resp, nil
}

func (s *jobService) Update(ctx context.Context, id string, req *dto.UpdateJobRequest, caller *authz.Principal) (*dto.JobResponse, error) {
	job, err := s.repo.Job.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	if err := authz.Authorize(caller, job, authz.RelationModify); err != nil {
		return nil, err
	}

	job.Title = strOr(req.Title, job.Title)
	job.Description = strOr(req.Description, job.Description)
	job.Company = strOr(req.Company, job.Company)
	job.Location = strOr(req.Location, job.Location)
	job.Type = strOr(req.Type, job.Type)
	job.Eligibility = strOr(req.Eligibility, job.Eligibility)
	job.ApplyLink = strOr(req.ApplyLink, job.ApplyLink)
	job.UpdatedBy = &caller.UserID

	if err := s.repo.Job.Update(ctx, job); err != nil {
		s.logger.Error("更新职位失败", zap.String("job_id", id), zap.Error(err))
		return nil, err
	}

	resp := toJobResponse(job)
	return &resp, nil
}

func (s *jobService) Delete(ctx context.Context, id string, caller *authz.Principal) error {
	job, err := s.repo.Job.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrJobNotFound)
	}
	if err := authz.Authorize(caller, job, authz.RelationModify); err != nil {
		return err
	}
	if err := s.repo.Job.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotFound
		}
		s.logger.Error("删除职位失败", zap.String("job_id", id), zap.Error(err))
		return err
	}
	return nil
}
