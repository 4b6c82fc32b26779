package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeJSON = "application/json"
)

// LocalFilesURLPrefix 本地存储文件的访问路径，挂在管理员路由下
const LocalFilesURLPrefix = "/api/admin/files"

// gin.Context 中的键
const (
	ContextKeyConfig  = "config"
	ContextKeyClaims  = "claims"
	ContextKeySession = "session"
)
