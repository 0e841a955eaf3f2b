package handle

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/internal/service"
	"github.com/yeisme/proximashare/pkg/log"
	"github.com/yeisme/proximashare/pkg/metrics"
)

// UploadFile 处理匿名文件上传，按公共级别限制生效.
//
//	@Summary		匿名上传文件
//	@Description	上传单个文件，返回不透明文件标识；匿名上传受公共级别的大小/过期/下载次数限制
//	@Tags			公共文件
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file						true	"上传的文件"
//	@Success		200		{object}	types.UploadFileResponse	"文件上传响应"
//	@Failure		400		{object}	map[string]string			"请求参数错误或超出大小限制"
//	@Failure		500		{object}	map[string]string			"服务器内部错误"
//	@Router			/api/files/upload [post]
func UploadFile(c *gin.Context) {
	l := log.Logger()

	file, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("failed to get uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})

		return
	}

	src, err := file.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})

		return
	}
	defer src.Close()

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Upload(c.Request.Context(), service.UploadInput{
		FileName: file.Filename,
		Size:     file.Size,
		MimeType: file.Header.Get("Content-Type"),
		Reader:   src,
	}, nil)
	if err != nil {
		writeServiceError(c, l, err)
		return
	}

	metrics.FilesUploaded.WithLabelValues(metrics.TierLabel(true)).Inc()
	c.JSON(http.StatusOK, resp)
}

// GetFileMeta 查询文件元数据. 元数据不设可见性门槛，带所有者展示名.
//
//	@Summary		查询文件元数据
//	@Description	按文件标识查询元数据；过期文件与不存在的文件统一返回404
//	@Tags			公共文件
//	@Produce		json
//	@Param			id	path		string					true	"文件标识"
//	@Success		200	{object}	types.FileMetaResponse	"文件元数据"
//	@Failure		404	{object}	map[string]string		"文件不存在或已过期"
//	@Router			/api/files/{id} [get]
func GetFileMeta(c *gin.Context) {
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

// DownloadFile 下载公共文件内容.
//
//	@Summary		下载文件
//	@Description	按文件标识下载内容；每次成功下载递增计数，超出次数限制后返回400
//	@Tags			公共文件
//	@Produce		application/octet-stream
//	@Param			id	path		string				true	"文件标识"
//	@Success		200	{file}		file				"文件流"
//	@Failure		400	{object}	map[string]string	"超出下载次数限制"
//	@Failure		403	{object}	map[string]string	"非公共文件"
//	@Failure		404	{object}	map[string]string	"文件不存在或已过期"
//	@Router			/api/files/download/{id} [get]
func DownloadFile(c *gin.Context) {
	l := log.Logger()
	id := c.Param("id")

	svc := service.NewFileService(c.Request.Context())

	res, err := svc.Download(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, l, err)
		return
	}

	metrics.FilesDownloaded.WithLabelValues(metrics.TierLabel(res.Record.IsPublic)).Inc()
	serveContent(c, res)
}

// serveContent 将下载结果以附件形式写回响应.
func serveContent(c *gin.Context, res *service.DownloadResult) {
	defer func() { _ = res.Content.Close() }()

	rec := res.Record

	c.Header("Content-Type", determineContentType(rec.FileName, rec.MimeType))
	c.Header("Content-Length", strconv.FormatInt(rec.Size, 10))
	c.Header("Content-Disposition", "attachment; filename=\""+escapeFileName(rec.FileName)+"\"")

	if _, err := io.Copy(c.Writer, res.Content); err != nil {
		log.Logger().Error().Err(err).Str("id", rec.ID).Msg("stream file content failed")
	}
}

// escapeFileName 简单转义文件名中的引号与分号等.
func escapeFileName(s string) string {
	replacer := strings.NewReplacer("\\", "_", "\"", "_", ";", "_", "\n", "_", "\r", "_")
	return replacer.Replace(s)
}

// determineContentType 根据已知信息推断 Content-Type.
func determineContentType(fileName, headerType string) string {
	if headerType != "" {
		return headerType
	}

	if ext := filepath.Ext(fileName); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}

	return "application/octet-stream"
}
