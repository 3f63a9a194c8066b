package utils

import "strings"

// SanitizeHandle 规范化 YouTube handle：去掉首尾空白与开头的 @，只保留字母、数字和 . _ -
func SanitizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	handle = strings.TrimLeft(handle, "@")

	var b strings.Builder
	for _, r := range handle {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EmailLocalPart 返回邮箱 @ 之前的部分
func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// NormalizeTags 去掉空白与重复标签，并保证 "OC" 位于首位
func NormalizeTags(tags []string) []string {
	const defaultTag = "OC"

	seen := make(map[string]bool, len(tags)+1)
	result := make([]string, 0, len(tags)+1)
	result = append(result, defaultTag)
	seen[defaultTag] = true

	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}

// SplitCSV 将逗号分隔的查询参数拆成去空白后的非空列表
func SplitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
