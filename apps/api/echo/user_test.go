package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/user"
	emailsvc "github.com/trezcool/protimer/services/email"
)

func Test_userApi_register(t *testing.T) {
	env := setup(t)
	env.createUser(t, "awe", "awe@test.cd", true)

	type body = map[string]string
	tests := []httpTest{
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/register",
			body:     marchallObj(t, body{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username":         "this field is required",
				"password":         "password must contain at least 8 characters",
				"password_confirm": "this field is required",
			}),
		},
		{
			name:   "weak password",
			method: http.MethodPost,
			path:   "/api/register",
			body: marchallObj(t, body{
				"username": "newbie", "password": "12345678", "password_confirm": "12345678",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name:   "username taken",
			method: http.MethodPost,
			path:   "/api/register",
			body: marchallObj(t, body{
				"username": "AWE", "password": testPassword, "password_confirm": testPassword,
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": user.ErrUsernameExists.Error()}),
		},
	}
	runHTTPTests(t, env, tests)

	t.Run("success", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/register", "", marchallObj(t, body{
			"username": "Newbie", "email": "newbie@test.cd", "password": testPassword, "password_confirm": testPassword,
		}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var usr user.User
		require.NoError(t, jsonUnmarshal(rec.Body.Bytes(), &usr))
		assert.NotZero(t, usr.ID)
		assert.Equal(t, "newbie", usr.Username)
		assert.True(t, usr.IsActive)
		assert.NotContains(t, rec.Body.String(), "password")

		cookie := sessionCookie(env, rec)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

		// the new session is usable right away
		var me user.User
		assert.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/user", cookie.Value, nil, &me))
		assert.Equal(t, usr.ID, me.ID)

		sent := emailsvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "newbie@test.cd", sent[0].To[0].Address)
	})
}

func Test_userApi_login(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "awe", "awe@test.cd", true)
	env.createUser(t, "naughty", "naughty@test.cd", false)

	type body = map[string]string
	tests := []httpTest{
		{
			name:     "missing password",
			method:   http.MethodPost,
			path:     "/api/login",
			body:     marchallObj(t, body{"username": "awe"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "this field is required"}),
		},
		{
			name:     "unknown user",
			method:   http.MethodPost,
			path:     "/api/login",
			body:     marchallObj(t, body{"username": "ghost", "password": testPassword}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "wrong password",
			method:   http.MethodPost,
			path:     "/api/login",
			body:     marchallObj(t, body{"username": "awe", "password": "wrong-pass"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "inactive user",
			method:   http.MethodPost,
			path:     "/api/login",
			body:     marchallObj(t, body{"username": "naughty", "password": testPassword}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	runHTTPTests(t, env, tests)

	for _, uname := range []string{"awe", "AWE@test.cd"} {
		t.Run("success with "+uname, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/login", "", marchallObj(t, body{"username": uname, "password": testPassword}))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp LoginResponse
			require.NoError(t, jsonUnmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, usr.ID, resp.User.ID)
			assert.False(t, resp.User.LastLogin.IsZero())

			cookie := sessionCookie(env, rec)
			require.NotNil(t, cookie)
			assert.Equal(t, resp.Token, cookie.Value)

			claims := new(Claims)
			_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(env.conf.SecretKey), nil
			})
			require.NoError(t, err)
			assert.Equal(t, "awe", claims.Username)
			id, err := claims.UserID()
			require.NoError(t, err)
			assert.Equal(t, usr.ID, id)
		})
	}
}

func Test_userApi_session(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "awe", "awe@test.cd", true)
	naughty := env.createUser(t, "naughty", "naughty@test.cd", false)
	token := env.getToken(t, usr)

	expired := env.auth.userClaims(usr)
	expired.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	expiredToken, err := env.auth.generateToken(expired)
	require.NoError(t, err)

	tests := []httpTest{
		{
			name:     "no cookie",
			method:   http.MethodGet,
			path:     "/api/user",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errNotAuthenticated),
		},
		{
			name:     "garbage token",
			method:   http.MethodGet,
			path:     "/api/user",
			token:    "not-a-jwt",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "expired token",
			method:   http.MethodGet,
			path:     "/api/user",
			token:    expiredToken,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "deactivated user",
			method:   http.MethodGet,
			path:     "/api/user",
			token:    env.getToken(t, naughty),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "current user",
			method:   http.MethodGet,
			path:     "/api/user",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, usr),
		},
	}
	runHTTPTests(t, env, tests)

	t.Run("token refresh", func(t *testing.T) {
		var resp LoginResponse
		assert.Equal(t, http.StatusOK, env.doJSON(t, http.MethodPost, "/api/token-refresh", token, nil, &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, usr.ID, resp.User.ID)
	})

	t.Run("logout", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/logout", token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		cookie := sessionCookie(env, rec)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.MaxAge < 0)
	})
}

func Test_userApi_passwordReset(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "awe", "awe@test.cd", true)

	success := marchallObj(t, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
	tests := []httpTest{
		{
			name:     "invalid email",
			method:   http.MethodPost,
			path:     "/api/password-reset",
			body:     marchallObj(t, PasswordResetRequest{Email: "awe"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/api/password-reset",
			body:     marchallObj(t, PasswordResetRequest{Email: "ghost@test.cd"}),
			wantCode: http.StatusOK,
			wantData: success,
		},
	}
	runHTTPTests(t, env, tests)
	assert.Empty(t, emailsvc.SentMessages())

	rec := env.do(http.MethodPost, "/api/password-reset", "", marchallObj(t, PasswordResetRequest{Email: "AWE@test.cd"}))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: success}, rec)
	sent := emailsvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "awe@test.cd", sent[0].To[0].Address)

	token, err := user.NewTokenGenerator(env.conf).MakeToken(usr)
	require.NoError(t, err)
	newPwd := "N3w-secret!"

	confirmTests := []httpTest{
		{
			name:   "bad token",
			method: http.MethodPost,
			path:   "/api/password-reset-confirm",
			body: marchallObj(t, user.ResetUserPassword{
				UID: user.EncodeUID(usr), Token: "bad-token", Password: newPwd, PasswordConfirm: newPwd,
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"token": "invalid value"}),
		},
		{
			name:   "passwords mismatch",
			method: http.MethodPost,
			path:   "/api/password-reset-confirm",
			body: marchallObj(t, user.ResetUserPassword{
				UID: user.EncodeUID(usr), Token: token, Password: newPwd, PasswordConfirm: "other",
			}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "success",
			method: http.MethodPost,
			path:   "/api/password-reset-confirm",
			body: marchallObj(t, user.ResetUserPassword{
				UID: user.EncodeUID(usr), Token: token, Password: newPwd, PasswordConfirm: newPwd,
			}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	runHTTPTests(t, env, confirmTests)

	code := env.doJSON(t, http.MethodPost, "/api/login", "", LoginRequest{Username: "awe", Password: newPwd}, nil)
	assert.Equal(t, http.StatusOK, code)
}

func Test_userApi_rateLimit(t *testing.T) {
	env := setup(t, func(conf *core.Config) {
		conf.Server.RateLimit = 0.001
		conf.Server.RateBurst = 2
	})
	env.createUser(t, "awe", "awe@test.cd", true)

	body := marchallObj(t, LoginRequest{Username: "awe", Password: "wrong-pass"})
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, env.do(http.MethodPost, "/api/login", "", body).Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)
}
