package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt 只看前 72 字节；更长的输入按 node bcrypt 的习惯截断，
// 否则 GenerateFromPassword 会直接报 ErrPasswordTooLong。
func bcrypt72(pw string) []byte {
	b := []byte(pw)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(bcrypt72(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), bcrypt72(pw)) == nil
}
