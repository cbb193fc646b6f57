package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// PasswordTestSuite 密码工具测试套件
type PasswordTestSuite struct {
	suite.Suite
}

// 测试密码哈希
func (suite *PasswordTestSuite) TestHashPassword() {
	hash, err := HashPassword("villain-slayer")
	suite.NoError(err)
	suite.True(strings.HasPrefix(hash, "$argon2id$"))

	// 相同密码因为盐不同得到不同哈希
	other, err := HashPassword("villain-slayer")
	suite.NoError(err)
	suite.NotEqual(hash, other)
}

// 测试密码验证
func (suite *PasswordTestSuite) TestVerifyPassword() {
	hash, err := HashPassword("CorrectPassword456")
	suite.Require().NoError(err)

	valid, err := VerifyPassword("CorrectPassword456", hash)
	suite.NoError(err)
	suite.True(valid)

	valid, err = VerifyPassword("correctpassword456", hash)
	suite.NoError(err)
	suite.False(valid)
}

// 测试自定义参数
func (suite *PasswordTestSuite) TestHashPasswordWithConfig() {
	config := &PasswordConfig{Time: 2, Memory: 8 * 1024, Threads: 1, KeyLen: 16}
	hash, err := HashPasswordWithConfig("tronium", config)
	suite.Require().NoError(err)
	suite.Contains(hash, "m=8192,t=2,p=1")

	valid, err := VerifyPassword("tronium", hash)
	suite.NoError(err)
	suite.True(valid)
}

// 测试格式错误的哈希
func (suite *PasswordTestSuite) TestMalformedHash() {
	for _, encoded := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	} {
		_, err := VerifyPassword("x", encoded)
		suite.Error(err, encoded)
	}
}

// 测试长度校验
func (suite *PasswordTestSuite) TestValidatePassword() {
	suite.ErrorIs(ValidatePassword("abc"), ErrPasswordTooShort)
	suite.NoError(ValidatePassword("abcdef"))
	suite.NoError(ValidatePassword("密码密码密码"))
	suite.ErrorIs(ValidatePassword(strings.Repeat("a", MaxPasswordLength+1)), ErrPasswordTooLong)
}

func TestPasswordTestSuite(t *testing.T) {
	suite.Run(t, new(PasswordTestSuite))
}
