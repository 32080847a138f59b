package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/elimu-app/elimu/core/access"
	testutil "github.com/elimu-app/elimu/tests"
)

func Test_access_apiBoundaries(t *testing.T) {
	resetApp()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "LolC@t123", access.RoleAdmin)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)
	ghost := testutil.CreateUser(t, usrRepo, "Ghost", "ghost@test.cd", "LolC@t123", access.RoleAdmin)

	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)
	ghostToken := getToken(t, ghost)

	// a token outliving its account must not grant admin access
	if err := usrSvc.Delete(context.Background(), ghost.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	tests := []httpTest{
		{name: "no session", method: http.MethodGet, path: "/api/students", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "garbage token", method: http.MethodGet, path: "/api/students", token: "lol.lol.lol", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "admin path: no session", method: http.MethodGet, path: "/api/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "admin path: teacher", method: http.MethodGet, path: "/api/users", token: teacherToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "admin path: deleted account", method: http.MethodGet, path: "/api/users", token: ghostToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "teacher on protected path", method: http.MethodGet, path: "/api/students", token: teacherToken, wantCode: http.StatusOK},
		{name: "admin on admin path", method: http.MethodGet, path: "/api/users", token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_access_pageBoundaries(t *testing.T) {
	resetApp()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "LolC@t123", access.RoleAdmin)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)

	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)

	tests := []struct {
		name         string
		path         string
		token        string
		wantCode     int
		wantLocation string
	}{
		{name: "home is public", path: "/", wantCode: http.StatusOK},
		{name: "login is public", path: "/login", wantCode: http.StatusOK},
		{name: "notices are public", path: "/notices", wantCode: http.StatusOK},
		{name: "dashboard: no session", path: "/dashboard", wantCode: http.StatusFound, wantLocation: "/login?redirect=%2Fdashboard"},
		{name: "prefix match stops at segment boundary", path: "/loginx", wantCode: http.StatusFound, wantLocation: "/login?redirect=%2Floginx"},
		{name: "dashboard: teacher", path: "/dashboard", token: teacherToken, wantCode: http.StatusOK},
		{name: "settings: no session", path: "/admin/settings", wantCode: http.StatusFound, wantLocation: "/login?redirect=%2Fadmin%2Fsettings"},
		{name: "settings: teacher", path: "/admin/settings", token: teacherToken, wantCode: http.StatusFound, wantLocation: "/dashboard"},
		{name: "settings: admin", path: "/admin/settings", token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newPageRequest(tt.path, tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantLocation != "" {
				checkRedirect(t, rec, tt.wantLocation)
				return
			}
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
		})
	}
}
