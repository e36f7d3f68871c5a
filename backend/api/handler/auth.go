package handler

import (
	"archive-hub/backend/api/middleware"
	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"
	"archive-hub/backend/model"
	"archive-hub/backend/service"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" validate:"max=64"`
	Password string `json:"password" validate:"max=128"`
}

type LoginResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Login godoc
// @Summary 用户登录
// @Description 校验用户名密码，写入服务端会话并返回 Bearer 令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "登录信息"
// @Success 200 {object} common.APIResponse{data=LoginResponse}
// @Failure 401 {object} common.APIResponse "用户名或密码错误"
// @Router /api/login [post]
func Login(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := bindPayload(c, &req); err != nil {
			common.RespErrorFrom(c, err)
			return
		}

		user, err := auth.Login(req.Username, req.Password)
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		token, err := auth.IssueToken(user)
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		if err := middleware.LoginSession(c, user.ID); err != nil {
			common.RespErrorFrom(c, apperrors.InternalServerError(err))
			return
		}
		common.SysLog("user " + user.Username + " logged in from " + c.ClientIP())
		common.RespSuccess(c, LoginResponse{User: user, Token: token})
	}
}

// Logout godoc
// @Summary 退出登录
// @Tags Auth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /api/logout [post]
func Logout(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := middleware.CurrentToken(c); token != "" {
			if err := auth.RevokeToken(c.Request.Context(), token); err != nil {
				common.RespErrorFrom(c, err)
				return
			}
		}
		if err := middleware.ClearSession(c); err != nil {
			common.RespErrorFrom(c, apperrors.InternalServerError(err))
			return
		}
		common.RespSuccessStr(c, "logged out")
	}
}

// Me returns the signed-in user.
func Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		common.RespErrorFrom(c, apperrors.New(apperrors.ErrUnauthorized, "not logged in"))
		return
	}
	common.RespSuccess(c, user)
}
