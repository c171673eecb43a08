package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/protimer/core"
)

func TestMakeVerifyToken(t *testing.T) {
	conf := core.NewTestConfig()
	gen := NewTokenGenerator(conf)

	now := time.Now()
	usr := User{
		ID:        1,
		Username:  "t",
		Email:     "t@test.test",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validToken, err := gen.MakeToken(usr)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	// generate an expired token
	dayLate := conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	gen.nowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := gen.MakeToken(usr)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}
	gen.nowFunc = time.Now // reset

	// a new login invalidates previous tokens
	loggedIn := usr
	loggedIn.LastLogin = now.Add(time.Minute)

	tests := []struct {
		name    string
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "user logged in since", usr: loggedIn, token: validToken, wantErr: errInvalidToken},
		{name: "valid token", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, gen.verifyToken(tt.usr, tt.token))
		})
	}
}

func TestEncodeDecodeUID(t *testing.T) {
	uid := EncodeUID(User{ID: 42})
	id, err := decodeUID(uid)
	assert.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = decodeUID("bG9s") // "lol"
	assert.Equal(t, errInvalidUID, err)

	_, err = decodeUID("***")
	assert.Equal(t, errInvalidUID, err)
}
