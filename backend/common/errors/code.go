package errors

// 通用错误
const (
	ErrInternalServer  = "ERR_INTERNAL_SERVER"
	ErrInvalidParam    = "ERR_INVALID_PARAM"
	ErrTooManyRequests = "ERR_TOO_MANY_REQUESTS"
	ErrBodyTooLarge    = "ERR_BODY_TOO_LARGE"
)

// 认证相关错误码
const (
	ErrUnauthorized       = "ERR_UNAUTHORIZED"
	ErrForbidden          = "ERR_FORBIDDEN"
	ErrInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrUserNotFound       = "ERR_USER_NOT_FOUND"
)

// 分类相关错误码
const (
	ErrCategoryNotFound = "ERR_CATEGORY_NOT_FOUND"
	ErrEmptyName        = "ERR_EMPTY_NAME"
)

// 文件相关错误码
const (
	ErrFileNotFound      = "ERR_FILE_NOT_FOUND"
	ErrBlobMissing       = "ERR_BLOB_MISSING"
	ErrNoFile            = "ERR_NO_FILE"
	ErrUnsupportedType   = "ERR_UNSUPPORTED_TYPE"
	ErrFileTooLarge      = "ERR_FILE_TOO_LARGE"
	ErrInvalidCategoryID = "ERR_INVALID_CATEGORY_ID"
	ErrCategoryMissing   = "ERR_CATEGORY_MISSING"
)
