package inbox

import "regexp"

var otpPattern = regexp.MustCompile(`\b[0-9]{4,8}\b`)

// ExtractOTP 返回正文中第一个独立的 4 到 8 位数字串
func ExtractOTP(text string) (string, bool) {
	code := otpPattern.FindString(text)
	return code, code != ""
}
