package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/elimu-app/elimu/core/access"
	"github.com/elimu-app/elimu/core/student"
	testutil "github.com/elimu-app/elimu/tests"
)

func Test_studentApi_crud(t *testing.T) {
	resetApp()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)
	token := getToken(t, teacher)

	newStudent := func(name, rollNo, grade string) []byte {
		return marchallObj(t, map[string]string{
			"name": name, "roll_no": rollNo, "grade": grade, "section": "A", "gender": "female",
		})
	}

	var created student.Student

	t.Run("query empty", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/students", token)
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusOK, wantData: []byte(`{"students":[]}`)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/students", token, newStudent("Neema K", "R-001", "5"))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var respData struct {
			Student student.Student `json:"student"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		created = respData.Student
		if created.ID == 0 {
			t.Error("failed! student not assigned an id")
		}
	})

	t.Run("duplicate roll number", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/students", token, newStudent("Imposter", "R-001", "6"))
		app.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"roll_no": "a student with this roll number already exists"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("required fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/students", token, marchallObj(t, map[string]string{"name": "Solo"}))
		app.ServeHTTP(rec, req)

		reqMsg := "this field is required"
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"roll_no": reqMsg, "grade": reqMsg, "section": reqMsg, "gender": reqMsg}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/students/%d", created.ID), token)
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, map[string]student.Student{"student": created})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/students/999", token)
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update keeps unset fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/students/%d", created.ID), token,
			marchallObj(t, map[string]string{"grade": "6"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var respData struct {
			Student student.Student `json:"student"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if respData.Student.Grade != "6" {
			t.Errorf("failed! grade = %s; want 6", respData.Student.Grade)
		}
		if respData.Student.Name != created.Name {
			t.Errorf("failed! name = %s; want %s", respData.Student.Name, created.Name)
		}
		if respData.Student.RollNo != created.RollNo {
			t.Errorf("failed! roll_no = %s; want %s", respData.Student.RollNo, created.RollNo)
		}
	})

	t.Run("query by search", func(t *testing.T) {
		testutil.CreateStudent(t, stdRepo, "Zawadi M", "R-002", "6")

		req, rec := newAuthRequest(http.MethodGet, "/api/students?search=neema", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var respData struct {
			Students []student.Student `json:"students"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(respData.Students) != 1 || respData.Students[0].ID != created.ID {
			t.Errorf("failed! students = %+v; want [%d]", respData.Students, created.ID)
		}
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/students/%d", created.ID), token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}

		req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/api/students/%d", created.ID), token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}
