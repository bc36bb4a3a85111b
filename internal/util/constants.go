package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage = "image/"

	MaxAvatarSize = 2 << 20
)

// TokenType 登录与注册响应中的 token_type
const TokenType = "bearer"
