package handler

import (
	"archive-hub/backend/common"
	"archive-hub/backend/service"

	"github.com/gin-gonic/gin"
)

type CategoryCreateRequest struct {
	Name        string `json:"name" validate:"max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// CategoryUpdateRequest uses pointers to tell "not provided" from "empty".
type CategoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// ListCategories godoc
// @Summary 分类列表
// @Description 返回全部分类及其文件数
// @Tags Categories
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]service.CategoryWithCount}
// @Router /api/categories [get]
func ListCategories(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.List()
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespSuccess(c, list)
	}
}

func GetCategory(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		detail, err := categories.Get(id)
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespSuccess(c, detail)
	}
}

func CreateCategory(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryCreateRequest
		if err := bindPayload(c, &req); err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		category, err := categories.Create(req.Name, req.Description)
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespCreated(c, category)
	}
}

func UpdateCategory(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		var req CategoryUpdateRequest
		if err := bindPayload(c, &req); err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		category, err := categories.Update(id, req.Name, req.Description)
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespSuccess(c, category)
	}
}

// DeleteCategory removes the category together with all of its files.
func DeleteCategory(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		if err := categories.Delete(id); err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespNoContent(c)
	}
}
