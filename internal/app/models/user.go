package models

import "encoding/json"

// UserType identifies the kind of account.
type UserType string

const (
	UserTypeLearner    UserType = "LEARNER"
	UserTypeInstructor UserType = "INSTRUCTOR"
)

// CourseRef denormalizes a course membership onto the user document so
// listings don't have to resolve every course.
type CourseRef struct {
	CourseID   string `json:"courseId"`
	CourseName string `json:"courseName"`
}

// SocialInitiative is an optional organization profile attached to a user.
type SocialInitiative struct {
	RegisteredNumber string `json:"registeredNumber"`
	BusinessNumber   string `json:"businessNumber"`
	Location         string `json:"location"`
	Hours            string `json:"hours"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
}

// User represents a user document.
//
// ClassesEnrolled and ClassesTeaching are membership sets mirroring the
// course documents' Students and Teachers sets. The two copies are kept
// consistent by the membership service, never by ad-hoc writes. A user may
// appear in both sets; learner and instructor roles are not mutually
// exclusive per course.
type User struct {
	ID              string      `json:"id"`
	Email           string      `json:"email"`
	PasswordHash    string      `json:"passwordHash"`
	Type            UserType    `json:"type"`
	ClassesEnrolled []CourseRef `json:"classesEnrolled"`
	ClassesTeaching []CourseRef `json:"classesTeaching"`

	// Questionnaire is an opaque profile blob owned by the frontend.
	Questionnaire json.RawMessage `json:"questionnaire,omitempty"`

	SocialInitiative *SocialInitiative `json:"socialInitiative,omitempty"`

	// Version is the optimistic concurrency stamp maintained by the
	// repository. It is a storage concern and never serialized.
	Version int64 `json:"-"`
}

// AddEnrolled adds a course ref to the enrolled set. Returns false if the
// course is already present.
func (u *User) AddEnrolled(ref CourseRef) bool {
	if containsCourseRef(u.ClassesEnrolled, ref.CourseID) {
		return false
	}
	u.ClassesEnrolled = append(u.ClassesEnrolled, ref)
	return true
}

// RemoveEnrolled removes a course from the enrolled set. Returns false if absent.
func (u *User) RemoveEnrolled(courseID string) bool {
	next, changed := removeCourseRef(u.ClassesEnrolled, courseID)
	u.ClassesEnrolled = next
	return changed
}

// AddTeaching adds a course ref to the teaching set. Returns false if the
// course is already present.
func (u *User) AddTeaching(ref CourseRef) bool {
	if containsCourseRef(u.ClassesTeaching, ref.CourseID) {
		return false
	}
	u.ClassesTeaching = append(u.ClassesTeaching, ref)
	return true
}

// RemoveTeaching removes a course from the teaching set. Returns false if absent.
func (u *User) RemoveTeaching(courseID string) bool {
	next, changed := removeCourseRef(u.ClassesTeaching, courseID)
	u.ClassesTeaching = next
	return changed
}

func containsCourseRef(list []CourseRef, courseID string) bool {
	for _, ref := range list {
		if ref.CourseID == courseID {
			return true
		}
	}
	return false
}

func removeCourseRef(list []CourseRef, courseID string) ([]CourseRef, bool) {
	for i, ref := range list {
		if ref.CourseID == courseID {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
