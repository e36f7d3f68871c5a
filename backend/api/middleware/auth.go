package middleware

import (
	"errors"
	"strings"

	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"
	"archive-hub/backend/model"
	"archive-hub/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUser        = "user"
	ctxKeyToken       = "token"
	ctxKeyAuthByToken = "authByToken"
)

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// resolveUser tries the session first, then a bearer token.
func resolveUser(c *gin.Context, auth *service.AuthService) (*model.User, error) {
	session := sessions.Default(c)
	if id, ok := session.Get(SessionKeyUserID).(int64); ok {
		user, err := auth.CurrentUser(id)
		if err != nil {
			if errors.Is(err, model.ErrRecordNotFound) {
				// 会话指向的用户已不存在，清理会话
				if clearErr := ClearSession(c); clearErr != nil {
					common.SysError("failed to clear stale session: " + clearErr.Error())
				}
			}
			return nil, err
		}
		return user, nil
	}

	token := bearerToken(c)
	if token == "" {
		return nil, apperrors.New(apperrors.ErrUnauthorized, "not logged in or token is invalid")
	}
	user, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	c.Set(ctxKeyToken, token)
	c.Set(ctxKeyAuthByToken, true)
	return user, nil
}

func authHelper(c *gin.Context, auth *service.AuthService, requireAdmin bool) {
	user, err := resolveUser(c, auth)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if requireAdmin && !user.IsAdmin {
		common.AbortWithError(c, apperrors.New(apperrors.ErrForbidden, "admin privileges required"))
		return
	}
	c.Set(ctxKeyUser, user)
	c.Next()
}

// UserAuth requires a signed-in user.
func UserAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, auth, false)
	}
}

// AdminAuth requires a signed-in administrator: 401 when anonymous, 403
// otherwise.
func AdminAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, auth, true)
	}
}

// CurrentUser returns the user stored by UserAuth/AdminAuth.
func CurrentUser(c *gin.Context) *model.User {
	user, _ := c.Get(ctxKeyUser)
	u, _ := user.(*model.User)
	return u
}

// CurrentToken returns the bearer token the request authenticated with, if any.
func CurrentToken(c *gin.Context) string {
	if !c.GetBool(ctxKeyAuthByToken) {
		return ""
	}
	return c.GetString(ctxKeyToken)
}
