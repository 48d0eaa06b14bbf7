package api

import (
	"strings"
	"unicode/utf8"
)

const (
	imagePrefix  = "images/"
	resumePrefix = "resume/"
	resumeKey    = resumePrefix + "resume.pdf"
	uploadsPath  = "/api/uploads/"
	maxUploadKey = 200
)

// isValidUploadKey 只允许访问上传接口写入过的两个前缀，拒绝路径穿越。
func isValidUploadKey(key string) bool {
	if key == "" || !utf8.ValidString(key) || len(key) > maxUploadKey {
		return false
	}
	if !strings.HasPrefix(key, imagePrefix) && key != resumeKey {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	name := strings.TrimPrefix(key, imagePrefix)
	if key != resumeKey && (name == "" || strings.Contains(name, "/")) {
		return false
	}
	return true
}
