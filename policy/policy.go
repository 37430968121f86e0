// Package policy decides whether a requester may read or write a resource.
//
// Every resource resolves the course it belongs to once; a single decision
// table then consumes the requester's role in that course.
package policy

import (
	"net/http"

	course "courseplatform/models/course"

	"gorm.io/gorm"
)

// Method is the class of an HTTP method.
type Method int

const (
	Read Method = iota
	Write
)

// MethodClass maps GET, HEAD and OPTIONS to Read and everything else to Write.
func MethodClass(httpMethod string) Method {
	switch httpMethod {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return Read
	default:
		return Write
	}
}

// Rule names one row of the decision table.
type Rule int

const (
	OwnerOrStaffOrReadOnly Rule = iota
	AdminOrReadOnly
	OwnerOrStaff
	StudentOrOwnerOrStaff
	StudentOrTeacherReadOwnerOrStaffWrite
)

func (r Rule) String() string {
	switch r {
	case OwnerOrStaffOrReadOnly:
		return "owner-or-staff-or-read-only"
	case AdminOrReadOnly:
		return "admin-or-read-only"
	case OwnerOrStaff:
		return "owner-or-staff"
	case StudentOrOwnerOrStaff:
		return "student-or-owner-or-staff"
	case StudentOrTeacherReadOwnerOrStaffWrite:
		return "student-or-teacher-read-owner-or-staff-write"
	}
	return "unknown"
}

// publicRead reports whether anyone may read under the rule.
func (r Rule) publicRead() bool {
	return r == OwnerOrStaffOrReadOnly || r == AdminOrReadOnly
}

// Requester is the caller of an operation. A zero UserID is anonymous.
type Requester struct {
	UserID uint
	Staff  bool
}

func Anonymous() Requester { return Requester{} }

func (r Requester) IsAnonymous() bool { return r.UserID == 0 }

// Resource is anything that can name its owning course. A nil course with a
// nil error means the resource lives outside any course, like a subject.
type Resource interface {
	OwningCourse(tx *gorm.DB) (*course.Course, error)
}

// owned is implemented by resources carrying their own owner. Others are
// owned by the owner of their course.
type owned interface {
	ResourceOwnerID() uint
}

// Target is a resource with its owner and course resolved.
type Target struct {
	OwnerID uint
	Course  *course.Course
}

// Resolve looks up the owning course of res and its owner.
func Resolve(tx *gorm.DB, res Resource) (Target, error) {
	c, err := res.OwningCourse(tx)
	if err != nil {
		return Target{}, err
	}
	t := Target{Course: c}
	switch {
	case isOwned(res):
		t.OwnerID = res.(owned).ResourceOwnerID()
	case c != nil:
		t.OwnerID = c.OwnerID
	}
	return t, nil
}

func isOwned(res Resource) bool {
	_, ok := res.(owned)
	return ok
}

func (t Target) visible() bool {
	return t.Course == nil || t.Course.Visible
}

// CanAccess applies rule to the requester's role on the target.
//
// Staff may do anything. Anonymous requesters never write and only read under
// rules open to anyone, and only when the owning course is visible.
func CanAccess(rule Rule, r Requester, m Method, t Target) bool {
	if r.Staff {
		return true
	}
	if r.IsAnonymous() {
		return m == Read && rule.publicRead() && t.visible()
	}

	isOwner := t.OwnerID != 0 && t.OwnerID == r.UserID
	isStudent := t.Course != nil && t.Course.HasStudent(r.UserID)
	isTeacher := t.Course != nil && t.Course.HasTeacher(r.UserID)

	switch rule {
	case OwnerOrStaffOrReadOnly:
		return m == Read || isOwner
	case AdminOrReadOnly:
		return m == Read
	case OwnerOrStaff:
		return isOwner
	case StudentOrOwnerOrStaff:
		if m == Read {
			return isStudent || isOwner
		}
		return isOwner
	case StudentOrTeacherReadOwnerOrStaffWrite:
		if m == Read {
			return isStudent || isTeacher
		}
		return isOwner
	}
	return false
}

// Check resolves res and applies rule.
func Check(tx *gorm.DB, rule Rule, r Requester, m Method, res Resource) (bool, error) {
	t, err := Resolve(tx, res)
	if err != nil {
		return false, err
	}
	return CanAccess(rule, r, m, t), nil
}

// CanSeeAnswerKey reports whether r may see the answer fields of a.
func CanSeeAnswerKey(r Requester, a *course.Assignment) bool {
	return r.Staff || (!r.IsAnonymous() && r.UserID == a.OwnerID)
}

// Standalone is a resource that belongs to no course, like a subject.
type Standalone struct{}

func (Standalone) OwningCourse(*gorm.DB) (*course.Course, error) { return nil, nil }

// CanSubmit decides who may hand in answers to an assignment. Students, the
// owner and staff always may. Teachers may too, unless the assignment is
// paid only and the course has a price.
func CanSubmit(r Requester, t Target, paidOnly bool) bool {
	if CanAccess(StudentOrOwnerOrStaff, r, Read, t) {
		return true
	}
	if r.IsAnonymous() || t.Course == nil || !t.Course.HasTeacher(r.UserID) {
		return false
	}
	return !(paidOnly && t.Course.Price > 0)
}
