package handler

import (
	"mime"
	"net/http"
	"strconv"

	"archive-hub/backend/api/middleware"
	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"
	"archive-hub/backend/service"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

// ListFiles godoc
// @Summary 文件列表
// @Description 返回全部文件，可按 categoryId 过滤
// @Tags Files
// @Produce json
// @Param categoryId query int false "分类 ID"
// @Success 200 {object} common.APIResponse{data=[]model.File}
// @Router /api/files [get]
func ListFiles(files *service.FileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID *int64
		if raw, ok := c.GetQuery("categoryId"); ok && raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				common.RespErrorFrom(c, apperrors.InvalidParamError("categoryId"))
				return
			}
			categoryID = &id
		}
		list, err := files.List(categoryID)
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespSuccess(c, list)
	}
}

func GetFile(files *service.FileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		file, err := files.Get(id)
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespSuccess(c, file)
	}
}

// UploadFile godoc
// @Summary 上传压缩包
// @Description multipart 表单：file（.rar/.zip/.7z）、name、description、categoryId
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} common.APIResponse{data=model.File}
// @Failure 400 {object} common.APIResponse "类型不支持或参数错误"
// @Failure 413 {object} common.APIResponse "文件过大"
// @Router /api/files [post]
func UploadFile(files *service.FileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		upload := middleware.StagedUpload(c)
		if upload == nil {
			common.RespErrorFrom(c, apperrors.New(apperrors.ErrNoFile, "no file uploaded"))
			return
		}
		file, err := files.Create(upload, c.PostForm("name"), c.PostForm("description"), c.PostForm("categoryId"))
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.SysLog("file " + strconv.FormatInt(file.ID, 10) + " uploaded: " + file.OriginalName + " (" + humanize.Bytes(uint64(file.Size)) + ")")
		common.RespCreated(c, file)
	}
}

func DeleteFile(files *service.FileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		if err := files.Delete(id); err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespNoContent(c)
	}
}

// DownloadFile streams the archive. The download is counted before the
// first byte is written.
func DownloadFile(files *service.FileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		blob, file, err := files.OpenDownload(id)
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		defer blob.Close()

		size := file.Size
		if info, err := blob.Stat(); err == nil {
			size = info.Size()
		}
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.OriginalName})
		if disposition == "" {
			disposition = "attachment"
		}
		c.DataFromReader(http.StatusOK, size, file.Type.ContentType(), blob, map[string]string{
			"Content-Disposition": disposition,
		})
	}
}
