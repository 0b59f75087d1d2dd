package errors

import (
	"fmt"
	"net/http"
)

// State store errors

// StoreUnavailable creates a state-store-unreachable error.
func StoreUnavailable(cause error) *AppError {
	return New(ErrTypeDatabase, "state store unreachable", cause, http.StatusInternalServerError).WithStack()
}

// StoreOpFailed creates a state-store-operation-failed error.
func StoreOpFailed(op string, cause error) *AppError {
	return New(ErrTypeDatabase, fmt.Sprintf("state store operation failed: %s", op), cause, http.StatusInternalServerError).WithStack()
}

// Index errors (Solr-compatible search index)

// IndexUnavailable creates a search-index-unreachable error.
func IndexUnavailable(cause error) *AppError {
	return New(ErrTypeHTTP, "search index unreachable", cause, http.StatusServiceUnavailable).WithStack()
}

// IndexRejected creates an error for a schema rejection or non-2xx response from the index.
func IndexRejected(op string, status int, cause error) *AppError {
	return New(ErrTypeHTTP, fmt.Sprintf("search index rejected %s: status %d", op, status), cause, http.StatusBadGateway).WithStack()
}

// Volume / path errors

// VolumeNotConfigured creates an error for a path that matches no configured volume.
func VolumeNotConfigured(path string) *AppError {
	return New(ErrTypeInvalidArg, fmt.Sprintf("path matches no configured volume: %s", path), nil, http.StatusBadRequest).WithStack()
}

// MountRootAbsent creates an error for a volume whose container root does not exist at startup.
func MountRootAbsent(name, path string) *AppError {
	return New(ErrTypeConfig, fmt.Sprintf("mount root absent for volume %q: %s", name, path), nil, http.StatusInternalServerError).WithStack()
}

// Extraction errors

// ExtractFailed creates an error for a type-specific metadata extractor failure.
func ExtractFailed(kind, path string, cause error) *AppError {
	return New(ErrTypeInternal, fmt.Sprintf("failed to extract %s metadata: %s", kind, path), cause, http.StatusInternalServerError).WithStack()
}

// ThumbnailFailed creates an error for a thumbnail render failure.
func ThumbnailFailed(path string, cause error) *AppError {
	return New(ErrTypeInternal, fmt.Sprintf("failed to render thumbnail: %s", path), cause, http.StatusInternalServerError).WithStack()
}

// 数据库相关错误 (generic, domain-agnostic — kept from the teacher)

// DBConnectionFailed creates a database connection failure error.
func DBConnectionFailed(cause error) *AppError {
	return New(ErrTypeDatabase, "database connection failed", cause, http.StatusInternalServerError).WithStack()
}

// DBQueryFailed creates a database query failure error.
func DBQueryFailed(operation string, cause error) *AppError {
	return New(ErrTypeDatabase, fmt.Sprintf("database query failed: %s", operation), cause, http.StatusInternalServerError).WithStack()
}

// DBRecordNotFound creates a record-not-found error.
func DBRecordNotFound(resource string) *AppError {
	return New(ErrTypeNotFound, fmt.Sprintf("record not found: %s", resource), nil, http.StatusNotFound).WithStack()
}

// 配置相关错误

// ConfigInvalid creates an invalid-configuration error.
func ConfigInvalid(field string, cause error) *AppError {
	return New(ErrTypeConfig, fmt.Sprintf("invalid configuration: %s", field), cause, http.StatusInternalServerError).WithStack()
}

// ConfigMissing creates a missing-configuration error.
func ConfigMissing(field string) *AppError {
	return New(ErrTypeConfig, fmt.Sprintf("missing configuration: %s", field), nil, http.StatusBadRequest).WithStack()
}

// 文件系统错误

// FileNotFound creates a file-not-found error.
func FileNotFound(path string) *AppError {
	return New(ErrTypeNotFound, fmt.Sprintf("file not found: %s", path), nil, http.StatusNotFound).WithStack()
}

// FileReadFailed creates a file-read-failure error.
func FileReadFailed(path string, cause error) *AppError {
	return New(ErrTypeInternal, fmt.Sprintf("failed to read file: %s", path), cause, http.StatusInternalServerError).WithStack()
}

// FileWriteFailed creates a file-write-failure error.
func FileWriteFailed(path string, cause error) *AppError {
	return New(ErrTypeInternal, fmt.Sprintf("failed to write file: %s", path), cause, http.StatusInternalServerError).WithStack()
}

// 参数验证错误

// RequiredParam creates a required-parameter-missing error.
func RequiredParam(param string) *AppError {
	return New(ErrTypeInvalidArg, fmt.Sprintf("required parameter missing: %s", param), nil, http.StatusBadRequest).WithStack()
}

// InvalidParam creates an invalid-parameter error.
func InvalidParam(param string, reason string) *AppError {
	message := fmt.Sprintf("invalid parameter: %s", param)
	if reason != "" {
		message = fmt.Sprintf("%s (%s)", message, reason)
	}
	return New(ErrTypeInvalidArg, message, nil, http.StatusBadRequest).WithStack()
}
