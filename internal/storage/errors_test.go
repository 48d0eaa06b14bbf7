package storage

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestIsNoSuchKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"minio code", minio.ErrorResponse{Code: "NoSuchKey"}, true},
		{"wrapped minio code", fmt.Errorf("stat object: %w", minio.ErrorResponse{Code: "NotFound"}), true},
		{"head 404 without code", minio.ErrorResponse{StatusCode: http.StatusNotFound}, true},
		{"message only", errors.New("The specified key does not exist."), true},
		{"missing bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}, false},
		{"other", minio.ErrorResponse{Code: "AccessDenied", Message: "denied"}, false},
		{"unrelated not found text", errors.New("route not found"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsNoSuchKey(tc.err))
		})
	}
}
