package types

import (
	"errors"

	"github.com/leafshare/leafshare/pkg/security"
)

const (
	DEFAULT_ACCESS_TOKEN_VERSION = "v1"
)

// AccessToken 长期有效的 API 访问凭证，由外部身份服务写入
type AccessToken struct {
	ID        int64  `json:"id" db:"id"`
	Appid     string `json:"appid" db:"appid"`
	UserID    string `json:"user_id" db:"user_id"`
	Token     string `json:"token" db:"token"`
	Version   string `json:"version" db:"version"`
	Info      string `json:"info" db:"info"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	ExpiresAt int64  `json:"expires_at" db:"expires_at"` // 秒级时间戳
}

func (s *AccessToken) TokenClaims(role string) (security.TokenClaims, error) {
	if s.Version != "" && s.Version != DEFAULT_ACCESS_TOKEN_VERSION {
		return security.TokenClaims{}, errors.New("unknown access token version")
	}
	return security.NewTokenClaims(s.Appid, DEFAULT_APPID, s.UserID, role, s.ExpiresAt), nil
}
