package handler

import (
	"errors"
	"net/http"
	"strconv"

	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidParamError(name)
	}
	return id, nil
}

// bindPayload decodes a JSON body and runs the validate tags on it.
func bindPayload(c *gin.Context, payload any) error {
	if err := c.ShouldBindJSON(payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apperrors.Wrap(err, apperrors.ErrBodyTooLarge, "request body too large")
		}
		return apperrors.Wrap(err, apperrors.ErrInvalidParam, "invalid request body")
	}
	if err := common.Validate.Struct(payload); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidParam, "invalid request body: "+err.Error())
	}
	return nil
}
