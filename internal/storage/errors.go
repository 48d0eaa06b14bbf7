package storage

import (
	"errors"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
)

// missingObjectCodes 是 MinIO / S3 表示对象不存在的错误码。
var missingObjectCodes = map[string]bool{
	"NoSuchKey":    true,
	"NotFound":     true,
	"NoSuchObject": true,
}

// IsNoSuchKey 判断 err 是否表示对象不存在。上传文件的读取与删除都依赖它区分 404 和真正的存储故障。
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		if missingObjectCodes[resp.Code] {
			return true
		}
		// HEAD 请求没有响应体，只能看状态码。
		if resp.Code == "" && resp.StatusCode == http.StatusNotFound {
			return true
		}
		return false
	}

	// 某些 S3 兼容网关只返回文本。
	return strings.Contains(strings.ToLower(err.Error()), "specified key does not exist")
}
