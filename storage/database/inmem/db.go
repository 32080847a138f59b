// Package inmemdb provides map-backed repositories for tests and local
// development without PostgreSQL.
package inmemdb

import (
	"sync"

	"github.com/elimu-app/elimu/core/attendance"
	"github.com/elimu-app/elimu/core/contact"
	"github.com/elimu-app/elimu/core/course"
	"github.com/elimu-app/elimu/core/grade"
	"github.com/elimu-app/elimu/core/notice"
	"github.com/elimu-app/elimu/core/student"
	"github.com/elimu-app/elimu/core/teaching"
	"github.com/elimu-app/elimu/core/user"
)

type (
	DB struct {
		user       *userTable
		student    *studentTable
		teacher    *teacherTable
		course     *courseTable
		grade      *gradeTable
		attendance *attendanceTable
		notice     *noticeTable
		message    *messageTable
	}

	userTable struct {
		sync.RWMutex
		table map[int]*user.User
	}
	studentTable struct {
		sync.RWMutex
		table map[int]*student.Student
	}
	teacherTable struct {
		sync.RWMutex
		table map[int]*teaching.Teacher
	}
	courseTable struct {
		sync.RWMutex
		table map[int]*course.Course
	}
	gradeTable struct {
		sync.RWMutex
		table map[int]*grade.Entry
	}
	attendanceTable struct {
		sync.RWMutex
		table map[int]*attendance.Record
	}
	noticeTable struct {
		sync.RWMutex
		table map[int]*notice.Notice
	}
	messageTable struct {
		sync.RWMutex
		table   map[int]*contact.Message
		replies map[int]*contact.Reply
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		student:    &studentTable{table: make(map[int]*student.Student)},
		teacher:    &teacherTable{table: make(map[int]*teaching.Teacher)},
		course:     &courseTable{table: make(map[int]*course.Course)},
		grade:      &gradeTable{table: make(map[int]*grade.Entry)},
		attendance: &attendanceTable{table: make(map[int]*attendance.Record)},
		notice:     &noticeTable{table: make(map[int]*notice.Notice)},
		message:    &messageTable{table: make(map[int]*contact.Message), replies: make(map[int]*contact.Reply)},
	}
	return db, nil
}
