package telegram

import "regexp"

// EscapeMarkdown 转义 Markdown 格式中的特殊字符，避免策略名或交易对破坏消息格式
func EscapeMarkdown(input string) string {
	specialChars := []struct {
		char   string
		escape string
	}{
		{"\\", "\\\\"},
		{"*", "\\*"},
		{"_", "\\_"},
		{"`", "\\`"},
		{"[", "\\["},
		{"]", "\\]"},
	}

	for _, sc := range specialChars {
		re := regexp.MustCompile(regexp.QuoteMeta(sc.char))
		input = re.ReplaceAllString(input, sc.escape)
	}

	return input
}
