package service

import (
	"context"
	"errors"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

var (
	ErrBatchNotFound  = apperrors.NotFound("Batch not found")
	ErrBatchExists    = apperrors.Conflict("Batch already exists with this name for the selected college.")
	ErrBatchDateOrder = apperrors.Validation("end_date must not be before start_date")
)

// BatchService 届次业务接口
type BatchService interface {
	Create(ctx context.Context, req *dto.CreateBatchRequest, caller *authz.Principal) (*dto.BatchResponse, error)
	List(ctx context.Context, caller *authz.Principal) ([]dto.BatchResponse, error)
	Get(ctx context.Context, id string, caller *authz.Principal) (*dto.BatchResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateBatchRequest, caller *authz.Principal) (*dto.BatchResponse, error)
	Delete(ctx context.Context, id string, caller *authz.Principal) error
	// Calendar 以 iCalendar 格式导出可见届次
	Calendar(ctx context.Context, caller *authz.Principal) (string, error)
	// CollegeOf 届次所属学院，供范围校验中间件使用
	CollegeOf(ctx context.Context, id string) (string, error)
}

type batchService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewBatchService 创建 BatchService 实例
func NewBatchService(repo *repository.Repository, logger *zap.Logger) BatchService {
	return &batchService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

// Create admin 创建的届次强制归属其本学院；superadmin 必须显式指定学院
func (s *batchService) Create(ctx context.Context, req *dto.CreateBatchRequest, caller *authz.Principal) (*dto.BatchResponse, error) {
	if !caller.HasRole(model.RoleAdmin, model.RoleSuperAdmin) {
		return nil, authz.RequiresRoles(model.RoleAdmin, model.RoleSuperAdmin)
	}

	collegeID := req.CollegeID
	if !caller.IsSuperAdmin() {
		if caller.CollegeID == "" {
			return nil, authz.ErrNoCollege
		}
		collegeID = caller.CollegeID
	}
	if collegeID == "" {
		return nil, ErrCollegeRequired
	}
	if _, err := s.repo.College.GetByID(ctx, collegeID); err != nil {
		return nil, notFound(err, ErrCollegeNotFound)
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrBatchDateOrder
	}

	name := strings.TrimSpace(req.BatchName)
	if _, err := s.repo.Batch.GetByName(ctx, collegeID, name); err == nil {
		return nil, ErrBatchExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	batch := &model.Batch{
		BatchName: name,
		StartDate: start,
		EndDate:   end,
		CollegeID: collegeID,
		BaseModel: model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := s.repo.Batch.Create(ctx, batch); err != nil {
		if isDuplicate(err) {
			return nil, ErrBatchExists
		}
		s.logger.Error("创建届次失败", zap.Error(err))
		return nil, err
	}

	resp := toBatchResponse(batch, s.now())
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *batchService) List(ctx context.Context, caller *authz.Principal) ([]dto.BatchResponse, error) {
	batches, err := s.visible(ctx, caller)
	if err != nil {
		return nil, err
	}

	now := s.now()
	list := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		list = append(list, toBatchResponse(&batches[i], now))
	}
	return list, nil
}

func (s *batchService) visible(ctx context.Context, caller *authz.Principal) ([]model.Batch, error) {
	collegeID, all, err := authz.ScopeFilter(caller)
	if err != nil {
		return nil, err
	}
	batches, err := s.repo.Batch.List(ctx, repository.Scope{CollegeID: collegeID, All: all})
	if err != nil {
		s.logger.Error("查询届次列表失败", zap.Error(err))
		return nil, err
	}
	return batches, nil
}

func (s *batchService) Get(ctx context.Context, id string, caller *authz.Principal) (*dto.BatchResponse, error) {
	batch, err := s.repo.Batch.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBatchNotFound)
	}
	if err := authz.Authorize(caller, batch, authz.RelationRead); err != nil {
		return nil, err
	}
	resp := toBatchResponse(batch, s.now())
	return &resp, nil
}

func (s *batchService) CollegeOf(ctx context.Context, id string) (string, error) {
	batch, err := s.repo.Batch.GetByID(ctx, id)
	if err != nil {
		return "", notFound(err, ErrBatchNotFound)
	}
	return batch.CollegeID, nil
}

// ────────────────────── Update ──────────────────────

func (s *batchService) Update(ctx context.Context, id string, req *dto.UpdateBatchRequest, caller *authz.Principal) (*dto.BatchResponse, error) {
	batch, err := s.repo.Batch.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBatchNotFound)
	}
	if err := authz.Authorize(caller, batch, authz.RelationManage); err != nil {
		return nil, err
	}

	if req.BatchName != nil {
		name := strings.TrimSpace(*req.BatchName)
		if name != batch.BatchName {
			if _, err := s.repo.Batch.GetByName(ctx, batch.CollegeID, name); err == nil {
				return nil, ErrBatchExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		batch.BatchName = name
	}
	if req.StartDate != nil {
		if batch.StartDate, err = parseDate("start_date", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if batch.EndDate, err = parseDate("end_date", *req.EndDate); err != nil {
			return nil, err
		}
	}
	if batch.EndDate.Before(batch.StartDate) {
		return nil, ErrBatchDateOrder
	}
	batch.UpdatedBy = &caller.UserID

	if err := s.repo.Batch.Update(ctx, batch); err != nil {
		if isDuplicate(err) {
			return nil, ErrBatchExists
		}
		s.logger.Error("更新届次失败", zap.String("batch_id", id), zap.Error(err))
		return nil, err
	}

	resp := toBatchResponse(batch, s.now())
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *batchService) Delete(ctx context.Context, id string, caller *authz.Principal) error {
	batch, err := s.repo.Batch.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrBatchNotFound)
	}
	if err := authz.Authorize(caller, batch, authz.RelationManage); err != nil {
		return err
	}
	if err := s.repo.Batch.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBatchNotFound
		}
		s.logger.Error("删除届次失败", zap.String("batch_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Calendar ──────────────────────

// Calendar 每个届次生成一个全天事件（DTEND 为结束日次日）
func (s *batchService) Calendar(ctx context.Context, caller *authz.Principal) (string, error) {
	batches, err := s.visible(ctx, caller)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Alumni Interaction//Batches//EN")
	cal.SetXWRCalName("Batches")

	stamp := s.now().UTC()
	for _, b := range batches {
		ev := cal.AddEvent(b.BatchID + "@alumni-interaction")
		ev.SetDtStampTime(stamp)
		ev.SetSummary(b.BatchName)
		ev.SetAllDayStartAt(b.StartDate)
		ev.SetAllDayEndAt(b.EndDate.AddDate(0, 0, 1))
		if b.Ended(s.now()) {
			ev.SetDescription("Batch has ended")
		}
	}
	return cal.Serialize(), nil
}
