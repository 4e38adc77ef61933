package mux

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/branlanda/poker-galaxy-arena-sub002/internal/jwt"
	"github.com/branlanda/poker-galaxy-arena-sub002/internal/util"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/model"
	"github.com/stretchr/testify/assert"
)

func Test_postPlayer(t *testing.T) {
	setupJWT()
	m := NewMux("")
	m.config.playerCreateDelay = time.Second * -1

	ts := httptest.NewServer(m)
	defer ts.Close()

	var obj errorResponse
	assertPost(t, ts, "/player", "{}", &obj, 400)
	assert.Equal(t, "missing or invalid email address", obj.Message)

	obj = errorResponse{}
	assertPost(t, ts, "/player", playerPayload{
		DisplayName: "&",
		Email:       "",
		Password:    "",
	}, &obj, 400)
	assert.Equal(t, "display name must only contain letters, numbers, and spaces, and be 40 characters or less", obj.Message)

	email := util.RandomEmail()
	obj = errorResponse{}
	assertPost(t, ts, "/player", playerPayload{
		Email:    email,
		Password: "",
	}, &obj, 400)
	assert.Equal(t, "password must be 6 or more characters", obj.Message)

	var pObj *playerWithEmail
	assertPost(t, ts, "/player", playerPayload{
		Email:    email,
		Password: "123456",
	}, &pObj, 201)
	assert.Greater(t, pObj.ID, int64(0))
	assert.Equal(t, email, pObj.Email)
	assert.NotEmpty(t, pObj.DisplayName)
	assert.False(t, pObj.Verified)

	obj = errorResponse{}
	assertPost(t, ts, "/player", &playerPayload{
		Email:    email,
		Password: "123456",
	}, &obj, 400)
	assert.Equal(t, "email address is already taken", obj.Message)

	// test display name
	email = util.RandomEmail()
	assertPost(t, ts, "/player", playerPayload{
		Email:       email,
		Password:    "123456",
		DisplayName: "Tommy",
	}, &pObj, 201)
	assert.Greater(t, pObj.ID, int64(0))
	assert.Equal(t, email, pObj.Email)
	assert.Equal(t, "Tommy", pObj.DisplayName)

	m.config.playerCreateDelay = time.Hour
	obj = errorResponse{}
	assertPost(t, ts, "/player", playerPayload{
		Email:    util.RandomEmail(),
		Password: "123456",
	}, &obj, 400)
	assert.Equal(t, "please wait before creating another player", obj.Message)
}

func Test_postPlayerVerifyToken(t *testing.T) {
	a := assert.New(t)

	setupJWT()
	ts := httptest.NewServer(NewMux(""))
	defer ts.Close()

	p, _ := model.CreatePlayer(cbg, util.RandomEmail(), "x", "123456", "")
	token, err := p.CreateAccountVerificationToken(cbg)
	a.NoError(err)

	assertPost(t, ts, fmt.Sprintf("/player/verify/%s", token), nil, nil, 200)

	p, err = model.GetPlayerByID(cbg, p.ID)
	a.NoError(err)
	a.True(p.Verified)

	// a token only works once
	assertPost(t, ts, fmt.Sprintf("/player/verify/%s", token), nil, nil, 404)
}

func Test_postPlayerAuth(t *testing.T) {
	setupJWT()
	ts := httptest.NewServer(NewMux(""))
	defer ts.Close()

	email := util.RandomEmail()
	pw := "my-password"

	p, err := model.CreatePlayer(context.Background(), email, email, pw, "")
	if err != nil {
		t.Error(err)
		return
	}

	// unverified accounts can't log in
	var errObj errorResponse
	assertPost(t, ts, "/player/auth", playerPayload{
		Email:    email,
		Password: pw,
	}, &errObj, 401)
	assert.Equal(t, "account not verified", errObj.Message)

	p.Verified = true
	assert.NoError(t, p.Save(context.Background()))

	var resp postPlayerAuthResponse
	assertPost(t, ts, "/player/auth", playerPayload{
		Email:    email,
		Password: pw,
	}, &resp, 200)
	id, err := jwt.ValidUserID(resp.JWT)
	assert.NoError(t, err)
	assert.Equal(t, p.ID, id)
	assert.Equal(t, email, resp.Player.Email)

	var playerObj *playerWithEmail
	assertGet(t, ts, fmt.Sprintf("/player/auth/%s", resp.JWT), &playerObj, 200)
	assert.Equal(t, email, playerObj.Email)
}

func Test_getPlayerAuthJWT_BadRequests(t *testing.T) {
	setupJWT()
	ts := httptest.NewServer(NewMux(""))
	defer ts.Close()

	var errObj errorResponse
	assertGet(t, ts, "/player/auth/bad", &errObj, 401)
}

func Test_postPlayerID(t *testing.T) {
	a := assert.New(t)

	setupJWT()
	ts := httptest.NewServer(NewMux(""))
	defer ts.Close()

	p, j := player()

	assertPost(t, ts, fmt.Sprintf("/player/%d", p.ID), postPlayerIDPayload{DisplayName: "New Name"}, nil, 200, j)
	p2, err := model.GetPlayerByID(cbg, p.ID)
	a.NoError(err)
	a.Equal("New Name", p2.DisplayName)

	// can't update somebody else
	other, _ := player()
	assertPost(t, ts, fmt.Sprintf("/player/%d", other.ID), postPlayerIDPayload{DisplayName: "Nope"}, nil, 403, j)

	var errObj errorResponse
	assertPost(t, ts, fmt.Sprintf("/player/%d", p.ID), postPlayerIDPayload{Email: "not-an-email"}, &errObj, 400, j)
	a.Equal("invalid email address", errObj.Message)
}

func Test_postPlayerResetPassword(t *testing.T) {
	a := assert.New(t)

	setupJWT()
	ts := httptest.NewServer(NewMux(""))
	defer ts.Close()

	p, _ := player()

	// unknown email still returns OK so addresses can't be probed
	assertPost(t, ts, "/player/reset-password", postPlayerResetPasswordRequestPayload{Email: util.RandomEmail()}, nil, 200)

	assertPost(t, ts, "/player/reset-password", postPlayerResetPasswordRequestPayload{Email: p.Email}, nil, 200)

	token, err := p.CreatePasswordResetRequest(cbg)
	a.NoError(err)

	assertGet(t, ts, fmt.Sprintf("/player/reset-password/%s", token), nil, 200)
	assertGet(t, ts, "/player/reset-password/bogus-token", nil, 404)

	assertPost(t, ts, fmt.Sprintf("/player/reset-password/%s", token), postPlayerResetPasswordPayload{
		Email:    p.Email,
		Password: "new-password",
	}, nil, 200)

	_, err = model.GetPlayerByEmailAndPassword(cbg, p.Email, "new-password")
	a.NoError(err)
}
