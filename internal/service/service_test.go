package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	"github.com/Zerds-Global/Alumini-interaction/pkg/jwt"
)

// ── 测试辅助 ──

type testEnv struct {
	cfg      *config.Config
	jwtMgr   *jwt.Manager
	users    *mockUserRepo
	profiles *mockProfileRepo
	colleges *mockCollegeRepo
	batches  *mockBatchRepo
	jobs     *mockJobRepo
	posts    *mockPostRepo
	photos   *mockPhotoRepo
	updates  *mockLiveUpdateRepo
	feedback *mockFeedbackRepo
	store    *mockStore
	revoker  *fakeRevoker
	repo     *repository.Repository
	svc      *Service
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (f *fakeRevoker) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	f.revoked[jti] = ttl
	return nil
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret-key-for-unit-testing-2026",
			TokenTTL:   7 * 24 * time.Hour,
			Issuer:     "alumni-test",
			BcryptCost: bcrypt.MinCost,
		},
		Seed: config.SeedConfig{
			SuperAdminName:     "Root",
			SuperAdminEmail:    "Root@Example.com",
			SuperAdminPassword: "root-password",
			Department:         "System Administration",
		},
	}

	e := &testEnv{cfg: cfg}
	e.profiles = newMockProfileRepo()
	e.colleges = newMockCollegeRepo()
	e.users = newMockUserRepo(e.profiles, e.colleges)
	e.batches = newMockBatchRepo()
	e.jobs = newMockJobRepo()
	e.posts = newMockPostRepo()
	e.photos = newMockPhotoRepo()
	e.updates = newMockLiveUpdateRepo()
	e.feedback = newMockFeedbackRepo()
	e.store = newMockStore()
	e.revoker = &fakeRevoker{revoked: make(map[string]time.Duration)}

	e.repo = &repository.Repository{
		User:       e.users,
		Profile:    e.profiles,
		College:    e.colleges,
		Batch:      e.batches,
		Job:        e.jobs,
		Post:       e.posts,
		Photo:      e.photos,
		LiveUpdate: e.updates,
		Feedback:   e.feedback,
	}
	e.jwtMgr = jwt.NewManager(&cfg.Auth)
	e.svc = NewService(cfg, e.repo, e.jwtMgr, e.revoker, e.store, zap.NewNop())
	return e
}

func (e *testEnv) addCollege(name string) *model.College {
	c := &model.College{Name: name}
	_ = e.colleges.Create(context.Background(), c)
	return c
}

// addUser 直接写入 mock，collegeID 为空表示无学院
func (e *testEnv) addUser(name, role, collegeID, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@test.edu",
		PasswordHash: string(hash),
		Role:         role,
	}
	if collegeID != "" {
		u.CollegeID = model.StrPtr(collegeID)
	}
	_ = e.users.Create(context.Background(), u)
	if u.HasProfile() {
		_ = e.profiles.Upsert(context.Background(), &model.Profile{UserID: u.UserID})
	}
	return u
}

func principalOf(u *model.User) *authz.Principal {
	return &authz.Principal{
		UserID:    u.UserID,
		Role:      u.Role,
		CollegeID: model.StrVal(u.CollegeID),
		Name:      u.Name,
		Email:     u.Email,
	}
}

// campus 两个学院及各角色成员
type campus struct {
	collegeA, collegeB *model.College
	super              *model.User
	adminA, adminB     *model.User
	alumniA, alumniB   *model.User
	studentA, studentB *model.User
}

func (e *testEnv) seedCampus() *campus {
	c := &campus{}
	c.collegeA = e.addCollege("College A")
	c.collegeB = e.addCollege("College B")
	c.super = e.addUser("super", model.RoleSuperAdmin, "", "password123")
	c.adminA = e.addUser("adminA", model.RoleAdmin, c.collegeA.CollegeID, "password123")
	c.adminB = e.addUser("adminB", model.RoleAdmin, c.collegeB.CollegeID, "password123")
	c.alumniA = e.addUser("alumniA", model.RoleAlumni, c.collegeA.CollegeID, "password123")
	c.alumniB = e.addUser("alumniB", model.RoleAlumni, c.collegeB.CollegeID, "password123")
	c.studentA = e.addUser("studentA", model.RoleStudent, c.collegeA.CollegeID, "password123")
	c.studentB = e.addUser("studentB", model.RoleStudent, c.collegeB.CollegeID, "password123")
	return c
}
