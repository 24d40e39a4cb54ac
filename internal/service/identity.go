package service

// Identity 调用方身份，由外部认证组件在进入核心前解析
type Identity struct {
	UserID string
	Email  string
	Role   string
}
