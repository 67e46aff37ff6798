package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/session"
)

func TestDanger_UsesUserFacingMessage(t *testing.T) {
	n := Danger(api.ErrAuthenticationExpired)
	assert.Equal(t, NoticeDanger, n.Kind)
	assert.Equal(t, "Your session has expired. Please log in again.", n.Message)
	assert.False(t, n.Expires())

	n = Danger(errors.Join(errors.New("publishing course"), &api.ServerRejection{Status: 400, Message: "title required"}))
	assert.Equal(t, "title required", n.Message)
}

func TestSuccess_Expires(t *testing.T) {
	n := Success("Course created successfully!", 1500*time.Millisecond)
	assert.True(t, n.Expires())
	assert.False(t, n.IsZero())
	assert.True(t, Notice{}.IsZero())
}

func TestInfo_ExpiresAndIsNotSuccess(t *testing.T) {
	n := Info("Please wait for the current upload to finish.", time.Second)
	assert.Equal(t, NoticeInfo, n.Kind)
	assert.True(t, n.Expires())
}

func TestNewSessionStatus(t *testing.T) {
	login := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cred := &session.Credential{Token: "t", User: domain.User{Name: "Jacob"}, LoginTime: login}

	st := NewSessionStatus(cred, time.Hour)
	assert.Equal(t, "Jacob", st.User.Name)
	assert.Equal(t, login, st.LoginTime)
	assert.Equal(t, time.Hour, st.Remaining)
	assert.Equal(t, SessionStatus{}, NewSessionStatus(nil, time.Hour))
}
