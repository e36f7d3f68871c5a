package middleware

import (
	"net/http"
	"strconv"
	"time"

	"archive-hub/backend/common"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// Session keys.
const (
	SessionKeyUserID   = "user_id"
	SessionKeyLastSeen = "last_seen"
)

// NewSessionStore returns a server-side session store: Redis when it is
// enabled, otherwise process memory. The cookie only carries the session id.
func NewSessionStore() (sessions.Store, error) {
	var store sessions.Store
	if common.RedisEnabled {
		opt := common.ParseRedisOption()
		redisStore, err := redis.NewStoreWithDB(10, "tcp", opt.Addr, opt.Username, opt.Password, redisSessionDB(opt), []byte(common.SessionSecret))
		if err != nil {
			return nil, err
		}
		store = redisStore
	} else {
		store = memstore.NewStore([]byte(common.SessionSecret))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   common.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// redisSessionDB keeps sessions in the database selected by REDIS_CONN_STRING.
func redisSessionDB(opt *goredis.Options) string {
	return strconv.Itoa(opt.DB)
}

// Sessions installs the session store under the "session" cookie.
func Sessions(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(common.SessionName, store)
}

// LoginSession binds the session to the user and issues the cookie.
func LoginSession(c *gin.Context, userID int64) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionKeyUserID, userID)
	session.Set(SessionKeyLastSeen, time.Now().Unix())
	session.Options(sessions.Options{
		Path:     "/",
		MaxAge:   common.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session.Save()
}

// ClearSession drops the session record and expires the cookie.
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session.Save()
}

// SessionTouch implements the sliding 24h expiry: an idle session is dropped,
// an active one gets a fresh last_seen and a re-issued cookie.
func SessionTouch() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(SessionKeyUserID) == nil {
			c.Next()
			return
		}
		now := time.Now().Unix()
		lastSeen, _ := session.Get(SessionKeyLastSeen).(int64)
		if now-lastSeen > common.SessionMaxAge {
			if err := ClearSession(c); err != nil {
				common.SysError("failed to clear expired session: " + err.Error())
			}
			c.Next()
			return
		}
		session.Set(SessionKeyLastSeen, now)
		if err := session.Save(); err != nil {
			common.SysError("failed to refresh session: " + err.Error())
		}
		c.Next()
	}
}
