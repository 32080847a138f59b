package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"testing"
	"time"

	echoapi "github.com/elimu-app/elimu/apps/api/echo"
	"github.com/elimu-app/elimu/core/access"
	"github.com/elimu-app/elimu/core/user"
	emailsvc "github.com/elimu-app/elimu/services/email"
	testutil "github.com/elimu-app/elimu/tests"
)

func Test_userApi_login(t *testing.T) {
	resetApp()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": reqMsg, "password": reqMsg}),
		},
		{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Email: "lol", Password: "lol"}),
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "unknown email", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Email: "lol@test.cd", Password: "lol"}),
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Email: teacher.Email, Password: "lol"}),
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "ok", wantCode: http.StatusOK,
			body: marchallObj(t, echoapi.LoginRequest{Email: teacher.Email, Password: "LolC@t123"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData struct {
					Token string    `json:"token"`
					User  user.User `json:"user"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				if respData.User.Email != teacher.Email {
					t.Errorf("failed! user.Email = %s; want %s", respData.User.Email, teacher.Email)
				}
				if respData.User.LastLogin.IsZero() {
					t.Error("failed! last_login not set")
				}
				var sessionCookie bool
				for _, c := range rec.Result().Cookies() {
					if c.Name == "token" && c.Value != "" && c.HttpOnly {
						sessionCookie = true
					}
				}
				if !sessionCookie {
					t.Error("failed! session cookie not set")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	resetApp()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "LolC@t123", access.RoleAdmin)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)
	ghost := testutil.CreateUser(t, usrRepo, "Ghost", "ghost@test.cd", "LolC@t123", access.RoleAdmin)

	// a token outliving its admin account must not mint new admins
	ghostToken := getToken(t, ghost)
	if err := usrSvc.Delete(context.Background(), ghost.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	newUserData := func(name, email, role string) []byte {
		return marchallObj(t, map[string]string{
			"name": name, "email": email, "role": role,
			"password": "LolC@t123", "password_confirm": "LolC@t123",
		})
	}

	type extraTest struct {
		wantRole access.Role
	}
	tests := []httpTest{
		{
			name: "defaults to teacher role", wantCode: http.StatusCreated,
			body:  newUserData("Awe Lol", "awe@test.cd", ""),
			extra: extraTest{wantRole: access.RoleTeacher},
		},
		{
			name: "anonymous cannot register an admin", wantCode: http.StatusForbidden,
			body:     newUserData("Sneaky", "sneaky@test.cd", "admin"),
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "teacher cannot register an admin", wantCode: http.StatusForbidden,
			body: newUserData("Sneaky", "sneaky@test.cd", "admin"), token: getToken(t, teacher),
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "deleted admin cannot register an admin", wantCode: http.StatusForbidden,
			body: newUserData("Sneaky", "sneaky@test.cd", "admin"), token: ghostToken,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin can register an admin", wantCode: http.StatusCreated,
			body: newUserData("Big Boss", "boss@test.cd", "admin"), token: getToken(t, admin),
			extra: extraTest{wantRole: access.RoleAdmin},
		},
		{
			name: "duplicate email", wantCode: http.StatusBadRequest,
			body:     newUserData("Imposter", teacher.Email, ""),
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{
			name: "unknown role", wantCode: http.StatusBadRequest,
			body:     newUserData("Awe Lol", "awe2@test.cd", "principal"),
			wantData: marchallObj(t, map[string]string{"role": "invalid role"}),
		},
		{
			name: "weak password", wantCode: http.StatusBadRequest,
			body: marchallObj(t, map[string]string{
				"name": "Awe Lol", "email": "awe3@test.cd",
				"password": "lol12345", "password_confirm": "lol12345",
			}),
			wantData: marchallObj(t, map[string]string{
				"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character",
			}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/register"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; data = %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var respData struct {
					User user.User `json:"user"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if extra, ok := tt.extra.(extraTest); ok && respData.User.Role != extra.wantRole {
					t.Errorf("failed! role = %s; want %s", respData.User.Role, extra.wantRole)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_resetPassword(t *testing.T) {
	resetApp()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)
	successData := marchallObj(t, echoapi.SuccessResponse{Success: "If the email address supplied is associated with an active account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."})

	pathRegex := regexp.MustCompile("/password-reset/.+/.+")

	type extraTest struct {
		emailSent bool
		to        mail.Address
	}
	tests := []httpTest{
		{name: "required fields", wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "this field is required"})},
		{
			name: "invalid email", wantCode: http.StatusBadRequest, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol"}),
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "unknown email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol@test.com"}),
			wantData: successData, extra: extraTest{emailSent: false},
		},
		{
			name: "known email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: teacher.Email}),
			wantData: successData, extra: extraTest{emailSent: true, to: mail.Address{Name: teacher.Name, Address: teacher.Email}},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/reset-password"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil // reset

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if extra, ok := tt.extra.(extraTest); ok {
				if extra.emailSent {
					if len(emailsvc.SentMessages) != 1 {
						t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
					}
					msg := emailsvc.SentMessages[0]
					if msg.To[0] != extra.to {
						t.Errorf("failed! To = %v; want %v", msg.To[0], extra.to)
					}
					if !strings.Contains(msg.TextContent, extra.to.Name) {
						t.Errorf("failed! text content does not contain recipient's name %q", extra.to.Name)
					}
					if !pathRegex.MatchString(msg.TextContent) {
						t.Errorf("failed! text content does not match pathRegex %v", pathRegex)
					}
				} else {
					if len(emailsvc.SentMessages) > 0 {
						t.Errorf("failed! len(SentMessages) = %d; want 0", len(emailsvc.SentMessages))
					}
				}
			}
		})
	}
}

func Test_userApi_confirmPasswordReset(t *testing.T) {
	resetApp()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)
	validUID := user.EncodeUID(teacher)
	validToken, err := user.MakeToken(conf, teacher)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	// generate an expired token
	dayLate := conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	user.NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := user.MakeToken(conf, teacher)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	user.NowFunc = time.Now // reset

	tests := []httpTest{
		{
			name: "weak password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "lol", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{
			name: "password confirmation mismatch", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "LolC@t123", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, map[string]string{"password_confirm": "password_confirm must be equal to Password"}),
		},
		{
			name: "invalid uid", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "!!!", Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "invalid token", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "HE4TS-sigsig-sig", UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "expired token", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: expiredToken, UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: "token expired"}),
		},
		{
			name: "valid token", wantCode: http.StatusOK,
			body:     marchallObj(t, user.ResetUserPassword{Token: validToken, UID: validUID, Password: "NewC@t456", PasswordConfirm: "NewC@t456"}),
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/reset-password/confirm"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				refreshed, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: teacher.ID})
				if err != nil {
					t.Fatalf("GetUser() failed: %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, teacher.PasswordHash) {
					t.Fatal("failed to update new password")
				}
			}
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	resetApp()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)

	// a token issued further back than the refresh window cannot be renewed
	staleIat := time.Now().Add(-2 * conf.Server.JWTRefreshExpirationDelta).Unix()
	staleClaims := echoapi.GetUserClaims(conf, teacher, staleIat)
	staleToken, err := echoapi.GenerateToken(conf, staleClaims)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "refresh period expired", token: staleToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})},
		{name: "token refreshed", token: getToken(t, teacher), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			// cannot guess the new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_updatePassword(t *testing.T) {
	resetApp()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)
	token := getToken(t, teacher)

	newPwd := func(current, pwd string) []byte {
		return marchallObj(t, user.UpdatePassword{CurrentPassword: current, NewPassword: pwd, PasswordConfirm: pwd})
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, body: newPwd("LolC@t123", "NewC@t456"), wantData: marchallObj(t, errUnauthorized)},
		{
			name: "wrong current password", wantCode: http.StatusBadRequest, token: token,
			body:     newPwd("lol", "NewC@t456"),
			wantData: marchallObj(t, map[string]string{"current_password": "invalid password"}),
		},
		{
			name: "ok", wantCode: http.StatusOK, token: token,
			body:     newPwd("LolC@t123", "NewC@t456"),
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Password has been updated."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/update-password"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	resetApp()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "LolC@t123", access.RoleAdmin)
	testutil.CreateUser(t, usrRepo, "Alice Teacher", "alice@test.cd", "LolC@t123", access.RoleTeacher)
	testutil.CreateUser(t, usrRepo, "Bob Teacher", "bob@test.cd", "LolC@t123", access.RoleTeacher)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "all", path: "/api/users", extra: 3},
		{name: "search by name", path: "/api/users?search=alice", extra: 1},
		{name: "search by email", path: "/api/users?search=bob@test.cd", extra: 1},
		{name: "search (unknown)", path: "/api/users?search=zzz", extra: 0},
		{name: "filter by role", path: "/api/users?role=teacher", extra: 2},
		{name: "filter & search", path: "/api/users?role=teacher&search=alice", extra: 1},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.token = adminToken
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			var respData struct {
				Users []user.User `json:"users"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			if want := tt.extra.(int); len(respData.Users) != want {
				t.Errorf("failed! len(users) = %d; want %d", len(respData.Users), want)
			}
		})
	}
}

func Test_userApi_userDestroy(t *testing.T) {
	resetApp()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "LolC@t123", access.RoleAdmin)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "LolC@t123", access.RoleTeacher)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "cannot delete self", path: fmt.Sprintf("/api/users/%d", admin.ID), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "non-numeric id", path: "/api/users/lol", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "ok", path: fmt.Sprintf("/api/users/%d", teacher.ID), wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		tt.method = http.MethodDelete
		tt.token = adminToken

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusNoContent {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				if _, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: teacher.ID}); err != user.ErrNotFound {
					t.Errorf("GetUser() err = %v; want ErrNotFound", err)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
