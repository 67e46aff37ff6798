package app

import (
	"time"

	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/session"
)

// SessionStatus is what whoami and the console header show.
type SessionStatus struct {
	User      domain.User
	LoginTime time.Time
	Remaining time.Duration
}

func NewSessionStatus(cred *session.Credential, remaining time.Duration) SessionStatus {
	if cred == nil {
		return SessionStatus{}
	}
	return SessionStatus{User: cred.User, LoginTime: cred.LoginTime, Remaining: remaining}
}
