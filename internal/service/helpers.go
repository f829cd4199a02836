package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

const dateLayout = "2006-01-02"

// ── 错误映射 ──

// notFound 将 gorm.ErrRecordNotFound 映射为业务错误，其余错误原样返回
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// isDuplicate 唯一约束冲突
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ── 通用辅助 ──

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.Validation(field + " must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func strOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return strings.TrimSpace(*p)
}

func nonEmptyOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// 打乱前两位的固定位置
	j, err := rand.Int(rand.Reader, big.NewInt(int64(length)))
	if err != nil {
		return "", err
	}
	result[0], result[j.Int64()] = result[j.Int64()], result[0]

	return string(result), nil
}

// ── 模型 → DTO ──

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:         u.UserID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		CollegeID:  model.StrVal(u.CollegeID),
		CreatedAt:  u.CreatedAt,
	}
	if u.College != nil {
		resp.CollegeName = u.College.Name
	}
	if u.Profile != nil {
		resp.Profile = toProfileResponse(u.Profile)
	}
	return resp
}

func toProfileResponse(p *model.Profile) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		RollNumber:        p.RollNumber,
		Age:               p.Age,
		Address:           p.Address,
		Phone:             p.Phone,
		College:           p.College,
		Degree:            p.Degree,
		Batch:             p.Batch,
		CurrentJobTitle:   p.CurrentJobTitle,
		CurrentCompany:    p.CurrentCompany,
		YearsOfExperience: p.YearsOfExperience,
		JobDescription:    p.JobDescription,
	}
	if p.DOB != nil {
		resp.DOB = p.DOB.Format(dateLayout)
	}
	return resp
}

// applyProfile 将非 nil 字段写入档案
func applyProfile(p *model.Profile, req *dto.ProfileRequest) error {
	if req == nil {
		return nil
	}
	if req.DOB != nil {
		if *req.DOB == "" {
			p.DOB = nil
		} else {
			dob, err := parseDate("dob", *req.DOB)
			if err != nil {
				return err
			}
			p.DOB = &dob
		}
	}
	if req.Age != nil {
		p.Age = req.Age
	}
	if req.YearsOfExperience != nil {
		p.YearsOfExperience = req.YearsOfExperience
	}
	p.RollNumber = strOr(req.RollNumber, p.RollNumber)
	p.Address = strOr(req.Address, p.Address)
	p.Phone = strOr(req.Phone, p.Phone)
	p.College = strOr(req.College, p.College)
	p.Degree = strOr(req.Degree, p.Degree)
	p.Batch = strOr(req.Batch, p.Batch)
	p.CurrentJobTitle = strOr(req.CurrentJobTitle, p.CurrentJobTitle)
	p.CurrentCompany = strOr(req.CurrentCompany, p.CurrentCompany)
	p.JobDescription = strOr(req.JobDescription, p.JobDescription)
	return nil
}

func toBatchResponse(b *model.Batch, now time.Time) dto.BatchResponse {
	return dto.BatchResponse{
		ID:        b.BatchID,
		BatchName: b.BatchName,
		StartDate: b.StartDate.Format(dateLayout),
		EndDate:   b.EndDate.Format(dateLayout),
		CollegeID: b.CollegeID,
		Ended:     b.Ended(now),
	}
}

func toCollegeResponse(c *model.College, admin *model.User) dto.CollegeResponse {
	resp := dto.CollegeResponse{
		ID:        c.CollegeID,
		Name:      c.Name,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Pincode:   c.Pincode,
		Phone:     c.Phone,
		Email:     c.Email,
		Website:   c.Website,
		AdminID:   model.StrVal(c.AdminID),
		CreatedAt: c.CreatedAt,
	}
	if admin != nil {
		u := toUserResponse(admin)
		resp.Admin = &u
	}
	return resp
}

func toJobResponse(j *model.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:          j.JobID,
		Title:       j.Title,
		Description: j.Description,
		Company:     j.Company,
		Location:    j.Location,
		Type:        j.Type,
		Eligibility: j.Eligibility,
		ApplyLink:   j.ApplyLink,
		PostedBy:    j.PostedBy,
		PostedByID:  j.PostedByID,
		CollegeID:   model.StrVal(j.CollegeID),
		CreatedAt:   j.CreatedAt,
	}
}

func toPostResponse(p *model.Post, stat repository.LikeStat) dto.PostResponse {
	return dto.PostResponse{
		ID:          p.PostID,
		Heading:     p.Heading,
		Description: p.Description,
		Image:       p.Image,
		PostType:    p.PostType,
		ReferenceID: p.ReferenceID,
		PostedBy:    p.PostedBy,
		PostedByID:  p.PostedByID,
		CollegeID:   p.CollegeID,
		Likes:       stat.Count,
		LikedByUser: stat.LikedByUser,
		Comments:    toCommentResponses(p.Comments),
		Shares:      p.Shares,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toCommentResponses(comments []model.PostComment) []dto.CommentResponse {
	result := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		result = append(result, dto.CommentResponse{
			ID:        c.CommentID,
			UserID:    c.UserID,
			UserName:  c.UserName,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return result
}

func toPhotoResponse(p *model.Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:          p.PhotoID,
		Heading:     p.Heading,
		Description: p.Description,
		Image:       p.Image,
		PostedByID:  p.PostedByID,
		CollegeID:   model.StrVal(p.CollegeID),
		CreatedAt:   p.CreatedAt,
	}
}

func toLiveUpdateResponse(u *model.LiveUpdate) dto.LiveUpdateResponse {
	return dto.LiveUpdateResponse{
		ID:          u.UpdateID,
		Heading:     u.Heading,
		Description: u.Description,
		PostedByID:  u.PostedByID,
		CollegeID:   model.StrVal(u.CollegeID),
		CreatedAt:   u.CreatedAt,
	}
}

func toFeedbackResponse(f *model.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:         f.FeedbackID,
		Name:       f.Name,
		Email:      f.Email,
		Department: f.Department,
		Message:    f.Message,
		UserID:     f.UserID,
		CollegeID:  f.CollegeID,
		CreatedAt:  f.CreatedAt,
	}
}
