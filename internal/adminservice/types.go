package adminservice

import (
	"database/sql"
	"time"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

const (
	SessionTokenTime time.Duration = 7 * 24 * time.Hour

	SessionCookieName = "admin_session"
)

var (
	AnonymousAdmin = Admin{}
)

type AdminService struct {
	m *AdminModel
	c *common.Cache
}

type AdminModel struct {
	db *sql.DB
}

type Admin struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

type Session struct {
	Plain   string    `json:"token"`
	Hash    []byte    `json:"-"`
	AdminID int       `json:"-"`
	Expiry  time.Time `json:"expiry"`
}
