package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Zerds-Global/Alumini-interaction/config"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired 同时满足 errors.Is(err, ErrTokenInvalid)
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrTokenInvalid)
)

// Claims 会话令牌声明
// sub 即用户 ID；角色与学院仅供参考，鉴权以库中身份为准
type Claims struct {
	Role      string `json:"role"`
	CollegeID string `json:"college_id,omitempty"`
	jwtv5.RegisteredClaims
}

// UserID 返回 sub
func (c *Claims) UserID() string { return c.Subject }

// Manager JWT 管理器
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// TTL 令牌有效期
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue 签发会话令牌，返回令牌与过期时间
func (m *Manager) Issue(userID, role, collegeID string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		Role:      role,
		CollegeID: collegeID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
			Issuer:    m.issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify 校验签名、算法与有效期
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}), jwtv5.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
