package database

import (
	"github.com/portalteam/auth-api/internal/auth"
)

// The user repository is the concrete user store behind the authentication
// service; the compile-time assertion keeps the two in sync.
var _ auth.UserStore = (*UserRepository)(nil)
