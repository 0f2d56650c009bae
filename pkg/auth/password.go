package auth

import (
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain password with bcrypt
func HashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("bcrypt.GenerateFromPassword() failed", zap.Error(err))
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies pwd against a bcrypt hash
func CheckPassword(hashPwd string, pwd string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashPwd), []byte(pwd)) == nil
}
