package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/internal/model"
	"github.com/yeisme/proximashare/pkg/internal/service"
	"github.com/yeisme/proximashare/pkg/log"
	"github.com/yeisme/proximashare/pkg/metrics"
)

// resolveOwner 提取调用方用户名并解析为用户记录.
func resolveOwner(c *gin.Context, svc *service.FileService) (*model.User, bool) {
	l := log.Logger()

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return nil, false
	}

	owner, err := svc.ResolveUser(c.Request.Context(), user)
	if err != nil {
		l.Error().Err(err).Str("user", user).Msg("resolve user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return nil, false
	}

	return owner, true
}

// UploadUserFile 处理认证用户的文件上传，按用户级别限制生效.
//
//	@Summary		用户上传文件
//	@Description	上传单个文件并归属到当前用户，受用户级别的大小/过期/下载次数限制
//	@Tags			用户文件
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file						true	"上传的文件"
//	@Success		200		{object}	types.UploadFileResponse	"文件上传响应"
//	@Failure		400		{object}	map[string]string			"请求参数错误或超出大小限制"
//	@Failure		500		{object}	map[string]string			"服务器内部错误"
//	@Router			/user/files/upload [post]
func UploadUserFile(c *gin.Context) {
	l := log.Logger()

	file, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("failed to get uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})

		return
	}

	svc := service.NewFileService(c.Request.Context())

	owner, ok := resolveOwner(c, svc)
	if !ok {
		return
	}

	src, err := file.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})

		return
	}
	defer src.Close()

	resp, err := svc.Upload(c.Request.Context(), service.UploadInput{
		FileName: file.Filename,
		Size:     file.Size,
		MimeType: file.Header.Get("Content-Type"),
		Reader:   src,
	}, owner)
	if err != nil {
		writeServiceError(c, l, err)
		return
	}

	metrics.FilesUploaded.WithLabelValues(metrics.TierLabel(false)).Inc()
	c.JSON(http.StatusOK, resp)
}

// ListUserFiles 列出当前用户的有效文件，按上传时间倒序.
//
//	@Summary		列出用户文件
//	@Description	返回当前用户未过期的文件列表，按上传时间倒序
//	@Tags			用户文件
//	@Produce		json
//	@Success		200	{object}	types.ListFilesResponse	"文件列表"
//	@Failure		400	{object}	map[string]string		"缺少用户身份"
//	@Router			/user/files [get]
func ListUserFiles(c *gin.Context) {
	l := log.Logger()

	svc := service.NewFileService(c.Request.Context())

	owner, ok := resolveOwner(c, svc)
	if !ok {
		return
	}

	resp, err := svc.ListOwned(c.Request.Context(), owner)
	if err != nil {
		writeServiceError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUserFileMeta 查询文件元数据. 元数据不设可见性门槛，带所有者展示名.
//
//	@Summary		查询用户文件元数据
//	@Description	按文件标识查询元数据；过期文件与不存在的文件统一返回404
//	@Tags			用户文件
//	@Produce		json
//	@Param			id	path		string					true	"文件标识"
//	@Success		200	{object}	types.FileMetaResponse	"文件元数据"
//	@Failure		404	{object}	map[string]string		"文件不存在或已过期"
//	@Router			/user/files/{id} [get]
func GetUserFileMeta(c *gin.Context) {
	l := log.Logger()
	id := c.Param("id")

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Meta(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadUserFile 以当前用户身份下载文件.
// 公共文件任何认证用户都可下载；私有文件仅所有者可下载.
//
//	@Summary		下载用户文件
//	@Description	按文件标识下载内容；公共文件对认证用户开放，私有文件仅所有者可下载，每次成功下载递增计数
//	@Tags			用户文件
//	@Produce		application/octet-stream
//	@Param			id	path		string				true	"文件标识"
//	@Success		200	{file}		file				"文件流"
//	@Failure		400	{object}	map[string]string	"超出下载次数限制"
//	@Failure		403	{object}	map[string]string	"私有文件且调用方不是所有者"
//	@Failure		404	{object}	map[string]string	"文件不存在或已过期"
//	@Router			/user/files/download/{id} [get]
func DownloadUserFile(c *gin.Context) {
	l := log.Logger()
	id := c.Param("id")

	svc := service.NewFileService(c.Request.Context())

	owner, ok := resolveOwner(c, svc)
	if !ok {
		return
	}

	res, err := svc.DownloadOwned(c.Request.Context(), id, owner)
	if err != nil {
		writeServiceError(c, l, err)
		return
	}

	metrics.FilesDownloaded.WithLabelValues(metrics.TierLabel(res.Record.IsPublic)).Inc()
	serveContent(c, res)
}

// DeleteUserFile 删除当前用户的文件（内容与元数据）.
//
//	@Summary		删除用户文件
//	@Description	删除当前用户的文件；blob 删除尽力而为，元数据删除为准
//	@Tags			用户文件
//	@Produce		json
//	@Param			id	path		string				true	"文件标识"
//	@Success		200	{object}	map[string]string	"删除成功"
//	@Failure		404	{object}	map[string]string	"文件不存在、已过期或不属于当前用户"
//	@Router			/user/files/{id} [delete]
func DeleteUserFile(c *gin.Context) {
	l := log.Logger()
	id := c.Param("id")

	svc := service.NewFileService(c.Request.Context())

	owner, ok := resolveOwner(c, svc)
	if !ok {
		return
	}

	if err := svc.DeleteOwned(c.Request.Context(), id, owner); err != nil {
		writeServiceError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}
