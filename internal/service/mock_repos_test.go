package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
)

var mockSeq int

func nextID(prefix string) string {
	mockSeq++
	return fmt.Sprintf("%s-%d", prefix, mockSeq)
}

func inScope(s repository.Scope, collegeID string) bool {
	if s.All {
		return true
	}
	if collegeID == "" {
		return s.IncludeGlobal
	}
	return collegeID == s.CollegeID
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users    map[string]*model.User
	profiles *mockProfileRepo
	colleges *mockCollegeRepo
	promoted int64
}

func newMockUserRepo(profiles *mockProfileRepo, colleges *mockCollegeRepo) *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), profiles: profiles, colleges: colleges}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = nextID("user")
	}
	cp := *user
	cp.College, cp.Profile = nil, nil
	m.users[user.UserID] = &cp
	return nil
}

// load 返回副本并模拟 Preload
func (m *mockUserRepo) load(u *model.User) *model.User {
	cp := *u
	if m.profiles != nil {
		if p, ok := m.profiles.profiles[u.UserID]; ok {
			pc := *p
			cp.Profile = &pc
		}
	}
	if m.colleges != nil && u.CollegeID != nil {
		if c, ok := m.colleges.colleges[*u.CollegeID]; ok {
			cc := *c
			cp.College = &cc
		}
	}
	return &cp
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return m.load(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return m.load(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	cp.College, cp.Profile = nil, nil
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	if m.profiles != nil {
		delete(m.profiles.profiles, id)
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if filters != nil {
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.CollegeID != "" && model.StrVal(u.CollegeID) != filters.CollegeID {
				continue
			}
		}
		result = append(result, *m.load(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, collegeID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, u := range m.users {
		if collegeID != "" && model.StrVal(u.CollegeID) != collegeID {
			continue
		}
		counts[u.Role]++
	}
	return counts, nil
}

func (m *mockUserRepo) CountMembers(_ context.Context, collegeID, excludeUserID string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if model.StrVal(u.CollegeID) == collegeID && u.UserID != excludeUserID {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) PromoteGraduates(_ context.Context, _ time.Time) (int64, error) {
	return m.promoted, nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Upsert(_ context.Context, profile *model.Profile) error {
	if profile.ProfileID == "" {
		profile.ProfileID = nextID("profile")
	}
	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

// ── Mock CollegeRepository ──

type mockCollegeRepo struct {
	colleges map[string]*model.College
}

func newMockCollegeRepo() *mockCollegeRepo {
	return &mockCollegeRepo{colleges: make(map[string]*model.College)}
}

func (m *mockCollegeRepo) Create(_ context.Context, c *model.College) error {
	if c.CollegeID == "" {
		c.CollegeID = nextID("college")
	}
	cp := *c
	m.colleges[c.CollegeID] = &cp
	return nil
}

func (m *mockCollegeRepo) GetByID(_ context.Context, id string) (*model.College, error) {
	if c, ok := m.colleges[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) GetByName(_ context.Context, name string) (*model.College, error) {
	for _, c := range m.colleges {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) List(_ context.Context) ([]model.College, error) {
	var result []model.College
	for _, c := range m.colleges {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCollegeRepo) Update(_ context.Context, c *model.College) error {
	cp := *c
	m.colleges[c.CollegeID] = &cp
	return nil
}

func (m *mockCollegeRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.colleges[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.colleges, id)
	return nil
}

// ── Mock BatchRepository ──

type mockBatchRepo struct {
	batches map[string]*model.Batch
}

func newMockBatchRepo() *mockBatchRepo {
	return &mockBatchRepo{batches: make(map[string]*model.Batch)}
}

func (m *mockBatchRepo) Create(_ context.Context, b *model.Batch) error {
	if b.BatchID == "" {
		b.BatchID = nextID("batch")
	}
	cp := *b
	m.batches[b.BatchID] = &cp
	return nil
}

func (m *mockBatchRepo) GetByID(_ context.Context, id string) (*model.Batch, error) {
	if b, ok := m.batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBatchRepo) GetByName(_ context.Context, collegeID, name string) (*model.Batch, error) {
	for _, b := range m.batches {
		if b.CollegeID == collegeID && b.BatchName == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBatchRepo) List(_ context.Context, scope repository.Scope) ([]model.Batch, error) {
	result := []model.Batch{}
	for _, b := range m.batches {
		if inScope(scope, b.CollegeID) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBatchRepo) Update(_ context.Context, b *model.Batch) error {
	cp := *b
	m.batches[b.BatchID] = &cp
	return nil
}

func (m *mockBatchRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.batches[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.batches, id)
	return nil
}

// ── Mock JobRepository ──

type mockJobRepo struct {
	jobs map[string]*model.Job
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.Job)}
}

func (m *mockJobRepo) Create(_ context.Context, j *model.Job) error {
	if j.JobID == "" {
		j.JobID = nextID("job")
	}
	cp := *j
	m.jobs[j.JobID] = &cp
	return nil
}

func (m *mockJobRepo) GetByID(_ context.Context, id string) (*model.Job, error) {
	if j, ok := m.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobRepo) List(_ context.Context, scope repository.Scope) ([]model.Job, error) {
	var result []model.Job
	for _, j := range m.jobs {
		if inScope(scope, model.StrVal(j.CollegeID)) {
			result = append(result, *j)
		}
	}
	return result, nil
}

func (m *mockJobRepo) Update(_ context.Context, j *model.Job) error {
	cp := *j
	m.jobs[j.JobID] = &cp
	return nil
}

func (m *mockJobRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.jobs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.jobs, id)
	return nil
}

// ── Mock PostRepository ──

type mockPostRepo struct {
	posts    map[string]*model.Post
	likes    map[string]map[string]bool // post_id → user_id
	comments map[string][]model.PostComment
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts:    make(map[string]*model.Post),
		likes:    make(map[string]map[string]bool),
		comments: make(map[string][]model.PostComment),
	}
}

func (m *mockPostRepo) Create(_ context.Context, p *model.Post) error {
	if p.PostID == "" {
		p.PostID = nextID("post")
	}
	cp := *p
	m.posts[p.PostID] = &cp
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	if p, ok := m.posts[id]; ok {
		cp := *p
		cp.Comments = append([]model.PostComment(nil), m.comments[id]...)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) List(_ context.Context, f *repository.PostListFilters) ([]model.Post, error) {
	var result []model.Post
	for _, p := range m.posts {
		if !inScope(f.Scope, p.CollegeID) {
			continue
		}
		if f.PostType != "" && p.PostType != f.PostType {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPostRepo) Update(_ context.Context, p *model.Post) error {
	cp := *p
	m.posts[p.PostID] = &cp
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) ToggleLike(_ context.Context, postID, userID string) (bool, int64, error) {
	if m.likes[postID] == nil {
		m.likes[postID] = make(map[string]bool)
	}
	liked := !m.likes[postID][userID]
	if liked {
		m.likes[postID][userID] = true
	} else {
		delete(m.likes[postID], userID)
	}
	return liked, int64(len(m.likes[postID])), nil
}

func (m *mockPostRepo) LikeStats(_ context.Context, ids []string, userID string) (map[string]repository.LikeStat, error) {
	stats := make(map[string]repository.LikeStat)
	for _, id := range ids {
		if l := m.likes[id]; len(l) > 0 {
			stats[id] = repository.LikeStat{Count: int64(len(l)), LikedByUser: l[userID]}
		}
	}
	return stats, nil
}

func (m *mockPostRepo) AddComment(_ context.Context, c *model.PostComment) error {
	if c.CommentID == "" {
		c.CommentID = nextID("comment")
	}
	m.comments[c.PostID] = append(m.comments[c.PostID], *c)
	return nil
}

func (m *mockPostRepo) ListComments(_ context.Context, postID string) ([]model.PostComment, error) {
	return m.comments[postID], nil
}

func (m *mockPostRepo) IncrementShares(_ context.Context, postID string) (int, error) {
	p, ok := m.posts[postID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	p.Shares++
	return p.Shares, nil
}

// ── Mock PhotoRepository / LiveUpdateRepository ──

type mockPhotoRepo struct {
	photos map[string]*model.Photo
}

func newMockPhotoRepo() *mockPhotoRepo {
	return &mockPhotoRepo{photos: make(map[string]*model.Photo)}
}

func (m *mockPhotoRepo) Create(_ context.Context, p *model.Photo) error {
	if p.PhotoID == "" {
		p.PhotoID = nextID("photo")
	}
	cp := *p
	m.photos[p.PhotoID] = &cp
	return nil
}

func (m *mockPhotoRepo) GetByID(_ context.Context, id string) (*model.Photo, error) {
	if p, ok := m.photos[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPhotoRepo) List(_ context.Context, scope repository.Scope) ([]model.Photo, error) {
	var result []model.Photo
	for _, p := range m.photos {
		if inScope(scope, model.StrVal(p.CollegeID)) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPhotoRepo) Update(_ context.Context, p *model.Photo) error {
	cp := *p
	m.photos[p.PhotoID] = &cp
	return nil
}

func (m *mockPhotoRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.photos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.photos, id)
	return nil
}

type mockLiveUpdateRepo struct {
	updates map[string]*model.LiveUpdate
}

func newMockLiveUpdateRepo() *mockLiveUpdateRepo {
	return &mockLiveUpdateRepo{updates: make(map[string]*model.LiveUpdate)}
}

func (m *mockLiveUpdateRepo) Create(_ context.Context, u *model.LiveUpdate) error {
	if u.UpdateID == "" {
		u.UpdateID = nextID("update")
	}
	cp := *u
	m.updates[u.UpdateID] = &cp
	return nil
}

func (m *mockLiveUpdateRepo) GetByID(_ context.Context, id string) (*model.LiveUpdate, error) {
	if u, ok := m.updates[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLiveUpdateRepo) List(_ context.Context, scope repository.Scope) ([]model.LiveUpdate, error) {
	var result []model.LiveUpdate
	for _, u := range m.updates {
		if inScope(scope, model.StrVal(u.CollegeID)) {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockLiveUpdateRepo) Update(_ context.Context, u *model.LiveUpdate) error {
	cp := *u
	m.updates[u.UpdateID] = &cp
	return nil
}

func (m *mockLiveUpdateRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.updates[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.updates, id)
	return nil
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct {
	items map[string]*model.Feedback
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{items: make(map[string]*model.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, f *model.Feedback) error {
	if f.FeedbackID == "" {
		f.FeedbackID = nextID("feedback")
	}
	cp := *f
	m.items[f.FeedbackID] = &cp
	return nil
}

func (m *mockFeedbackRepo) GetByID(_ context.Context, id string) (*model.Feedback, error) {
	if f, ok := m.items[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeedbackRepo) List(_ context.Context, scope repository.Scope) ([]model.Feedback, error) {
	var result []model.Feedback
	for _, f := range m.items {
		if inScope(scope, f.CollegeID) {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (m *mockFeedbackRepo) Update(_ context.Context, f *model.Feedback) error {
	cp := *f
	m.items[f.FeedbackID] = &cp
	return nil
}

func (m *mockFeedbackRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

// ── Mock storage.Store ──

type mockStore struct {
	saved   map[string][]byte
	removed []string
}

func newMockStore() *mockStore {
	return &mockStore{saved: make(map[string][]byte)}
}

func (m *mockStore) Save(_ context.Context, r io.Reader, originalName string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	path := "/uploads/" + nextID("img") + "-" + originalName
	m.saved[path] = buf.Bytes()
	return path, nil
}

func (m *mockStore) Remove(_ context.Context, path string) error {
	m.removed = append(m.removed, path)
	delete(m.saved, path)
	return nil
}
