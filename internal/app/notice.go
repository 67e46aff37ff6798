package app

import (
	"time"

	"github.com/naumanrao/courseadmin/internal/api"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeDanger  NoticeKind = "danger"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a transient alert. A zero TTL means it stays until replaced.
type Notice struct {
	Kind    NoticeKind
	Message string
	TTL     time.Duration
}

func Success(message string, ttl time.Duration) Notice {
	return Notice{Kind: NoticeSuccess, Message: message, TTL: ttl}
}

// Info is a neutral alert, used when a request is refused without failing.
func Info(message string, ttl time.Duration) Notice {
	return Notice{Kind: NoticeInfo, Message: message, TTL: ttl}
}

// Danger builds the alert shown for err.
func Danger(err error) Notice {
	return Notice{Kind: NoticeDanger, Message: api.Message(err)}
}

func (n Notice) IsZero() bool { return n.Message == "" }

// Expires reports whether the notice dismisses itself.
func (n Notice) Expires() bool { return n.Kind != NoticeDanger && n.TTL > 0 }
