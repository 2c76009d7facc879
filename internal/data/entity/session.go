package entity

import (
	"time"

	"github.com/google/uuid"
)

// AdminSession is a server-issued, revocable admin login.
type AdminSession struct {
	BaseSimple
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
