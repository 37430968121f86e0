package course_test

import (
	"errors"
	"testing"

	"courseplatform/apperr"
	course "courseplatform/models/course"
	"courseplatform/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestModulesGetSequentialOrders(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	c := testutil.SeedCourse(t, db, owner, "Go")

	for i := 0; i < 4; i++ {
		m := testutil.SeedModule(t, db, c, "module")
		require.NotNil(t, m.Order)
		assert.Equal(t, i, *m.Order)
	}
}

func TestExplicitOrderIsKeptWithDuplicates(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	c := testutil.SeedCourse(t, db, owner, "Go")

	first := testutil.SeedModule(t, db, c, "first")
	dup := &course.Module{CourseID: c.ID, Title: "dup", Order: intPtr(0)}
	require.NoError(t, db.Create(dup).Error)
	assert.Equal(t, 0, *dup.Order)

	jump := &course.Module{CourseID: c.ID, Title: "jump", Order: intPtr(7)}
	require.NoError(t, db.Create(jump).Error)

	next := testutil.SeedModule(t, db, c, "next")
	assert.Equal(t, 8, *next.Order)

	var listed []course.Module
	require.NoError(t, db.Where("course_id = ?", c.ID).Scopes(course.BySiblingOrder).Find(&listed).Error)
	require.Len(t, listed, 4)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, dup.ID, listed[1].ID)
	assert.Equal(t, jump.ID, listed[2].ID)
	assert.Equal(t, next.ID, listed[3].ID)
}

func TestOrdersAreScopedToTheirGroup(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	c := testutil.SeedCourse(t, db, owner, "Go")
	m := testutil.SeedModule(t, db, c, "m")
	it := testutil.SeedItem(t, db, m)
	other := testutil.SeedItem(t, db, m)
	assert.Equal(t, 0, *it.Order)
	assert.Equal(t, 1, *other.Order)

	text := testutil.SeedText(t, db, it, owner.ID, "a", "body")
	a := testutil.SeedAssignment(t, db, it, owner.ID, &course.StringAssignmentPayload{
		AssignmentCommon: course.AssignmentCommon{Common: course.Common{Title: "q"}, MaxScore: 1},
		Answer:           "x",
	})
	text2 := testutil.SeedText(t, db, it, owner.ID, "b", "body")
	elsewhere := testutil.SeedText(t, db, other, owner.ID, "c", "body")

	assert.Equal(t, 0, *text.Order)
	assert.Equal(t, 0, *a.Order)
	assert.Equal(t, 1, *text2.Order)
	assert.Equal(t, 0, *elsewhere.Order)
}

func TestDeleteCascades(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	student := testutil.SeedUser(t, db, "student@example.com", false)
	c := testutil.SeedCourse(t, db, owner, "Go")
	m := testutil.SeedModule(t, db, c, "m")
	it := testutil.SeedItem(t, db, m)
	text := testutil.SeedText(t, db, it, owner.ID, "a", "body")
	a := testutil.SeedAssignment(t, db, it, owner.ID, &course.StringAssignmentPayload{
		AssignmentCommon: course.AssignmentCommon{Common: course.Common{Title: "q"}, MaxScore: 1},
		Answer:           "x",
	})
	require.NoError(t, db.Create(&course.Submission{AssignmentID: a.ID, UserID: student.ID, Score: 1, MaxScore: 1}).Error)

	require.NoError(t, db.Delete(c).Error)

	_, err := course.LoadModule(db, m.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = course.LoadItem(db, it.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = course.LoadContent(db, course.KindText, text.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = course.LoadAssignment(db, course.KindStringAssignment, a.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	attempts, err := course.CountAttempts(db, a.ID, student.ID)
	require.NoError(t, err)
	assert.Zero(t, attempts)
}

func TestDuplicateCourseTitlePerOwner(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	other := testutil.SeedUser(t, db, "other@example.com", false)
	testutil.SeedCourse(t, db, owner, "Go")

	err := db.Create(&course.Course{OwnerID: owner.ID, Title: "Go", Visible: true}).Error
	assert.True(t, errors.Is(err, apperr.ErrDuplicateResource))

	assert.NoError(t, db.Create(&course.Course{OwnerID: other.ID, Title: "Go", Visible: true}).Error)
}

func TestTitleIsFreeAfterDelete(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	c := testutil.SeedCourse(t, db, owner, "Go")
	require.NoError(t, db.Delete(c).Error)

	assert.NoError(t, db.Create(&course.Course{OwnerID: owner.ID, Title: "Go", Visible: true}).Error)
}

func TestLoadKindMismatchIsNotFound(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	c := testutil.SeedCourse(t, db, owner, "Go")
	it := testutil.SeedItem(t, db, testutil.SeedModule(t, db, c, "m"))
	text := testutil.SeedText(t, db, it, owner.ID, "a", "body")

	_, err := course.LoadContent(db, course.KindVideo, text.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestOwningCourseWalksUp(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	student := testutil.SeedUser(t, db, "student@example.com", false)
	c := testutil.SeedCourse(t, db, owner, "Go")
	testutil.Enroll(t, db, c, student)
	it := testutil.SeedItem(t, db, testutil.SeedModule(t, db, c, "m"))
	text := testutil.SeedText(t, db, it, owner.ID, "a", "body")

	got, err := text.OwningCourse(db)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.True(t, got.HasStudent(student.ID))
	assert.False(t, got.HasTeacher(student.ID))
}

func TestVisibleToScope(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	other := testutil.SeedUser(t, db, "other@example.com", false)
	testutil.SeedCourse(t, db, owner, "public")
	hidden := testutil.SeedCourse(t, db, owner, "hidden")
	require.NoError(t, db.Model(hidden).Update("visible", false).Error)

	count := func(userID uint, staff bool) int64 {
		var n int64
		require.NoError(t, db.Model(&course.Course{}).Scopes(course.VisibleTo(userID, staff)).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, count(0, false))
	assert.EqualValues(t, 1, count(other.ID, false))
	assert.EqualValues(t, 2, count(owner.ID, false))
	assert.EqualValues(t, 2, count(other.ID, true))
}
