package util

const DateFormat = "2006-01-02"

// Cookie 名称
const (
	AccessCookieName  = "auth"
	RefreshCookieName = "refresh"
	CSRFCookieName    = "XSRF-TOKEN"
	CSRFHeaderName    = "X-XSRF-TOKEN"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
