package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	"github.com/Zerds-Global/Alumini-interaction/pkg/metrics"
)

// GraduationService 毕业晋升：届次结束后将学生转为校友
type GraduationService interface {
	PromoteGraduates(ctx context.Context, now time.Time) (int64, error)
}

type graduationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGraduationService 创建 GraduationService 实例
func NewGraduationService(repo *repository.Repository, logger *zap.Logger) GraduationService {
	return &graduationService{repo: repo, logger: logger}
}

// PromoteGraduates 单条 UPDATE 完成，重复执行无副作用
func (s *graduationService) PromoteGraduates(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.User.PromoteGraduates(ctx, now)
	if err != nil {
		metrics.GraduationRunsTotal.WithLabelValues("error").Inc()
		s.logger.Error("毕业晋升失败", zap.Error(err))
		return 0, err
	}

	metrics.GraduationRunsTotal.WithLabelValues("ok").Inc()
	metrics.GraduationPromotionsTotal.Add(float64(n))
	if n > 0 {
		s.logger.Info("学生已晋升为校友", zap.Int64("count", n))
	}
	return n, nil
}
