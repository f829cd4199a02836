package handler

import "github.com/Zerds-Global/Alumini-interaction/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Role       *RoleHandler
	College    *CollegeHandler
	Batch      *BatchHandler
	Job        *JobHandler
	Post       *PostHandler
	Photo      *PhotoHandler
	LiveUpdate *LiveUpdateHandler
	Feedback   *FeedbackHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Role:       NewRoleHandler(svc.Role),
		College:    NewCollegeHandler(svc.College),
		Batch:      NewBatchHandler(svc.Batch),
		Job:        NewJobHandler(svc.Job),
		Post:       NewPostHandler(svc.Post),
		Photo:      NewPhotoHandler(svc.Photo),
		LiveUpdate: NewLiveUpdateHandler(svc.LiveUpdate),
		Feedback:   NewFeedbackHandler(svc.Feedback),
	}
}
