package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

// JWTTestSuite JWT工具测试套件
type JWTTestSuite struct {
	suite.Suite
	manager *JWTManager
}

func (suite *JWTTestSuite) SetupTest() {
	suite.manager = NewJWTManager(
		"test-secret-key",
		1*time.Hour,    // access token expiry
		7*24*time.Hour, // refresh token expiry
	)
}

// 测试令牌有效期
func (suite *JWTTestSuite) TestGetTokenExpiry() {
	suite.Equal(1*time.Hour, suite.manager.GetTokenExpiry(TokenTypeAccess))
	suite.Equal(7*24*time.Hour, suite.manager.GetTokenExpiry(TokenTypeRefresh))
}

// 测试签发并验证
func (suite *JWTTestSuite) TestGenerateAndValidate() {
	pair, err := suite.manager.GenerateTokenPair(42, "luna")
	suite.Require().NoError(err)
	suite.NotEmpty(pair.AccessToken)
	suite.NotEmpty(pair.RefreshToken)
	suite.WithinDuration(time.Now().Add(time.Hour), pair.ExpiresAt, 5*time.Second)

	claims, err := suite.manager.ValidateAccessToken(pair.AccessToken)
	suite.Require().NoError(err)
	suite.Equal(uint(42), claims.PlayerID)
	suite.Equal("luna", claims.Name)
	suite.Equal(TokenTypeAccess, claims.TokenType)
	suite.Equal("battle-slot", claims.Issuer)

	// 刷新令牌不能当访问令牌用
	_, err = suite.manager.ValidateAccessToken(pair.RefreshToken)
	suite.ErrorIs(err, ErrWrongType)
}

// 测试刷新
func (suite *JWTTestSuite) TestRefresh() {
	pair, err := suite.manager.GenerateTokenPair(7, "orion")
	suite.Require().NoError(err)

	next, claims, err := suite.manager.Refresh(pair.RefreshToken)
	suite.Require().NoError(err)
	suite.Equal(uint(7), claims.PlayerID)

	access, err := suite.manager.ValidateAccessToken(next.AccessToken)
	suite.Require().NoError(err)
	suite.Equal("orion", access.Name)

	_, _, err = suite.manager.Refresh(pair.AccessToken)
	suite.ErrorIs(err, ErrWrongType)
}

// 测试过期令牌
func (suite *JWTTestSuite) TestExpiredToken() {
	manager := NewJWTManager("test-secret-key", -time.Minute, time.Hour)
	pair, err := manager.GenerateTokenPair(1, "vega")
	suite.Require().NoError(err)

	_, err = manager.ValidateToken(pair.AccessToken)
	suite.ErrorIs(err, ErrExpiredToken)
}

// 测试错误的密钥和签名方法
func (suite *JWTTestSuite) TestInvalidToken() {
	other := NewJWTManager("another-secret", time.Hour, time.Hour)
	pair, err := other.GenerateTokenPair(1, "vega")
	suite.Require().NoError(err)

	_, err = suite.manager.ValidateToken(pair.AccessToken)
	suite.Error(err)

	_, err = suite.manager.ValidateToken("not.a.token")
	suite.Error(err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &PlayerClaims{PlayerID: 1})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	suite.Require().NoError(err)
	_, err = suite.manager.ValidateToken(raw)
	suite.Error(err)
}

func TestJWTTestSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}
