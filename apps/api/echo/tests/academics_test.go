package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/elimu-app/elimu/core/access"
	"github.com/elimu-app/elimu/core/course"
	"github.com/elimu-app/elimu/core/grade"
	"github.com/elimu-app/elimu/core/notice"
	"github.com/elimu-app/elimu/core/teaching"
	testutil "github.com/elimu-app/elimu/tests"
)

// exercises the teacher profile -> course -> grade chain end to end.
func Test_academicsApi(t *testing.T) {
	resetApp()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "LolC@t123", access.RoleAdmin)
	acct := testutil.CreateUser(t, usrRepo, "Mr Banza", "banza@test.cd", "LolC@t123", access.RoleTeacher)
	std := testutil.CreateStudent(t, stdRepo, "Neema K", "R-001", "5")
	token := getToken(t, admin)

	var (
		tch teaching.Teacher
		crs course.Course
		ent grade.Entry
	)

	t.Run("profile needs an existing account", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/teachers", token,
			marchallObj(t, teaching.NewTeacher{UserID: 999, Subject: "Math", Qualification: "BSc"}))
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"user_id": "user not found"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("create profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/teachers", token,
			marchallObj(t, teaching.NewTeacher{UserID: acct.ID, Subject: "Math", Qualification: "BSc", Experience: "6 years"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var respData struct {
			Teacher teaching.Teacher `json:"teacher"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		tch = respData.Teacher
		if tch.Name != acct.Name || tch.Email != acct.Email {
			t.Errorf("failed! profile not hydrated from account: %+v", tch)
		}
	})

	t.Run("one profile per account", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/teachers", token,
			marchallObj(t, teaching.NewTeacher{UserID: acct.ID, Subject: "Physics", Qualification: "MSc"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("create course", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/courses", token,
			marchallObj(t, course.NewCourse{Code: "MATH5", Name: "Mathematics", Grade: "5", TeacherID: tch.ID, Schedule: "Mon 08:00", Room: "B2"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var respData struct {
			Course course.Course `json:"course"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		crs = respData.Course
		if crs.Code != "math5" {
			t.Errorf("failed! code = %s; want math5 (lowercased)", crs.Code)
		}
	})

	t.Run("duplicate course code", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/courses", token,
			marchallObj(t, course.NewCourse{Code: "math5", Name: "Mathematics again", Grade: "5"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("grade needs an existing course", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/grades", token,
			marchallObj(t, grade.NewEntry{StudentID: std.ID, CourseID: 999, Grade: "A", Percentage: "92", Term: "T1"}))
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("record grade", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/grades", token,
			marchallObj(t, grade.NewEntry{StudentID: std.ID, CourseID: crs.ID, Grade: "A", Percentage: "92", Term: "T1", Remarks: "solid"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var respData struct {
			Grade grade.Entry `json:"grade"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		ent = respData.Grade
	})

	t.Run("update grade keeps unset fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/grades/%d", ent.ID), token,
			marchallObj(t, grade.UpdateEntry{Grade: "A+", Percentage: "97"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var respData struct {
			Grade grade.Entry `json:"grade"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if respData.Grade.Grade != "A+" || respData.Grade.Term != "T1" {
			t.Errorf("failed! grade = %+v; want A+ with T1 kept", respData.Grade)
		}
	})

	t.Run("query grades by student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/grades?student_id=%d", std.ID), token)
		app.ServeHTTP(rec, req)

		var respData struct {
			Grades []grade.Entry `json:"grades"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(respData.Grades) != 1 {
			t.Errorf("failed! len(grades) = %d; want 1", len(respData.Grades))
		}
	})
}

func Test_noticeApi_crud(t *testing.T) {
	resetApp()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "LolC@t123", access.RoleAdmin)
	token := getToken(t, admin)

	var created notice.Notice

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/notices", token,
			marchallObj(t, notice.NewNotice{Title: "Sports Day", Content: "Friday on the main field."}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var respData struct {
			Notice notice.Notice `json:"notice"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		created = respData.Notice
	})

	t.Run("public notices page lists it", func(t *testing.T) {
		req, rec := newPageRequest("/notices", "")
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		if body := rec.Body.String(); !strings.Contains(body, "Sports Day") {
			t.Error("failed! notice title not rendered")
		}
	})

	t.Run("update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/notices/%d", created.ID), token,
			marchallObj(t, notice.UpdateNotice{Title: "Sports Day (moved)"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var respData struct {
			Notice notice.Notice `json:"notice"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if respData.Notice.Content != created.Content {
			t.Errorf("failed! content = %s; want kept", respData.Notice.Content)
		}
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/notices/%d", created.ID), token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}
	})
}
