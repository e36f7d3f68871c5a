package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type gzipBody struct {
	*gzip.Reader
	raw io.ReadCloser
}

func (b *gzipBody) Close() error {
	b.Reader.Close()
	return b.raw.Close()
}

// GzipDecodeMiddleware decompresses gzipped request bodies. Apart from
// multipart uploads, which Upload limits itself, the decompressed body is
// capped at maxBytes.
func GzipDecodeMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Content-Encoding") == "gzip" {
			gzipReader, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			var body io.ReadCloser = &gzipBody{Reader: gzipReader, raw: c.Request.Body}
			if !strings.HasPrefix(c.ContentType(), "multipart/") {
				// 解压后的大小不受 Content-Length 约束，需要单独限制
				body = http.MaxBytesReader(c.Writer, body, maxBytes)
			}
			defer body.Close()

			c.Request.Body = body
			c.Request.Header.Del("Content-Encoding")
			c.Request.ContentLength = -1
		}
		c.Next()
	}
}

// gzipWriter implements ResponseWriter and compresses data using gzip
type gzipWriter struct {
	gin.ResponseWriter
	writer *gzip.Writer
}

func (g *gzipWriter) WriteHeader(code int) {
	// 压缩后长度会变化
	g.Header().Del("Content-Length")
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	g.Header().Del("Content-Length")
	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

// GzipEncodeMiddleware compresses response bodies with gzip. Requests whose
// path starts with one of skipPrefixes are passed through untouched.
func GzipEncodeMiddleware(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		gz, err := gzip.NewWriterLevel(c.Writer, gzip.DefaultCompression)
		if err != nil {
			c.Next()
			return
		}

		gzipWriter := &gzipWriter{
			ResponseWriter: c.Writer,
			writer:         gz,
		}
		c.Writer = gzipWriter
		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		defer func() {
			if c.Writer.Status() == http.StatusNoContent || c.Writer.Status() == http.StatusNotModified {
				// 无响应体的状态码不能写入 gzip 尾部
				c.Header("Content-Encoding", "")
				gz.Reset(io.Discard)
			}
			gz.Close()
		}()

		c.Next()
	}
}
