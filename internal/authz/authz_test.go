package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

type testResource struct {
	owner   string
	college string
}

func (r testResource) ResourceOwner() string   { return r.owner }
func (r testResource) ResourceCollege() string { return r.college }

var (
	superAdmin = &Principal{UserID: "u-super", Role: "superadmin"}
	adminA     = &Principal{UserID: "u-admin-a", Role: "admin", CollegeID: "college-a"}
	adminB     = &Principal{UserID: "u-admin-b", Role: "admin", CollegeID: "college-b"}
	alumniA    = &Principal{UserID: "u-alumni-a", Role: "alumni", CollegeID: "college-a"}
	alumniA2   = &Principal{UserID: "u-alumni-a2", Role: "alumni", CollegeID: "college-a"}
	studentB   = &Principal{UserID: "u-student-b", Role: "student", CollegeID: "college-b"}
	orphan     = &Principal{UserID: "u-orphan", Role: "student"}
)

func TestRequireSameCollegeOrSuper(t *testing.T) {
	cases := []struct {
		name    string
		p       *Principal
		target  string
		wantErr error
	}{
		{"superadmin 任意学院", superAdmin, "college-b", nil},
		{"superadmin 无目标学院", superAdmin, "", nil},
		{"同学院 admin", adminA, "college-a", nil},
		{"跨学院 admin", adminA, "college-b", ErrCrossInstitution},
		{"跨学院 alumni", alumniA, "college-b", ErrCrossInstitution},
		{"跨学院 student", studentB, "college-a", ErrCrossInstitution},
		{"调用方无学院", orphan, "college-a", ErrCollegeScopeMissing},
		{"目标无学院", adminA, "", ErrCollegeScopeMissing},
		{"无调用方", nil, "college-a", ErrCollegeScopeMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireSameCollegeOrSuper(tc.p, tc.target)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
		})
	}
}

func TestCanModify_ExactDisjunction(t *testing.T) {
	res := testResource{owner: alumniA.UserID, college: "college-a"}
	global := testResource{owner: superAdmin.UserID}

	cases := []struct {
		name string
		r    Resource
		p    *Principal
		want bool
	}{
		{"所有者", res, alumniA, true},
		{"同学院 admin", res, adminA, true},
		{"superadmin", res, superAdmin, true},
		{"同学院非所有者 alumni", res, alumniA2, false},
		{"跨学院 admin", res, adminB, false},
		{"跨学院 student", res, studentB, false},
		{"全局对象 admin", global, adminA, false},
		{"全局对象 superadmin", global, superAdmin, true},
		{"无调用方", res, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanModify(tc.r, tc.p))

			err := Authorize(tc.p, tc.r, RelationModify)
			if tc.want {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestIsOwner_EmptyOwnerNeverMatches(t *testing.T) {
	assert.False(t, IsOwner(testResource{owner: ""}, &Principal{UserID: ""}))
}

func TestScopeFilter(t *testing.T) {
	collegeID, all, err := ScopeFilter(superAdmin)
	require.NoError(t, err)
	assert.True(t, all)
	assert.Empty(t, collegeID)

	collegeID, all, err = ScopeFilter(alumniA)
	require.NoError(t, err)
	assert.False(t, all)
	assert.Equal(t, "college-a", collegeID)

	_, _, err = ScopeFilter(orphan)
	assert.ErrorIs(t, err, ErrNoCollege)

	_, _, err = ScopeFilter(nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorize_Read(t *testing.T) {
	res := testResource{college: "college-a"}

	assert.NoError(t, Authorize(alumniA, res, RelationRead))
	assert.NoError(t, Authorize(superAdmin, res, RelationRead))
	assert.ErrorIs(t, Authorize(studentB, res, RelationRead), ErrCrossInstitution)
	assert.NoError(t, Authorize(studentB, testResource{}, RelationRead), "全局对象对所有人可读")
	assert.ErrorIs(t, Authorize(nil, res, RelationRead), ErrUnauthenticated)
}

func TestAuthorize_Manage(t *testing.T) {
	res := testResource{owner: alumniA.UserID, college: "college-a"}

	assert.NoError(t, Authorize(adminA, res, RelationManage))
	assert.NoError(t, Authorize(superAdmin, res, RelationManage))
	assert.ErrorIs(t, Authorize(adminB, res, RelationManage), ErrCrossInstitution)

	err := Authorize(alumniA, res, RelationManage)
	require.Error(t, err)
	assert.Equal(t, "Forbidden: requires admin or superadmin", err.Error())

	assert.ErrorIs(t, Authorize(adminA, testResource{}, RelationManage), ErrCollegeScopeMissing,
		"全局对象只能由 superadmin 管理")
}

func TestAuthorize_Engage(t *testing.T) {
	res := testResource{owner: alumniA.UserID, college: "college-a"}

	assert.NoError(t, Authorize(alumniA2, res, RelationEngage))
	assert.NoError(t, Authorize(adminA, res, RelationEngage))
	assert.ErrorIs(t, Authorize(studentB, res, RelationEngage), ErrNotMember)
	assert.ErrorIs(t, Authorize(superAdmin, res, RelationEngage), ErrNotMember)
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{"superadmin", "admin", "alumni", "student"} {
		assert.True(t, ValidRole(r), r)
	}
	assert.False(t, ValidRole("leader"))
	assert.False(t, ValidRole(""))
}
