package group

import "strings"

// ExtractVersion 从目录名中提取版本号；未命中返回空串。
// 按 patterns.go 中的顺序尝试，取首个命中的捕获组。
func ExtractVersion(dirName string) string {
	for _, re := range versionPatterns {
		if m := re.FindStringSubmatch(dirName); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// ExtractSearchKey 从目录名提取查询关键词。
//
// 依次剔除：前缀标签 → 版本号（含字母后缀）→ 平台标识 → 结尾汉化标记，
// 再清理结尾的 _ / 空格 / . / ~。结果为空时回退原始目录名。
func ExtractSearchKey(dirName string) string {
	result := dirName

	for _, re := range bracketPatterns {
		result = re.ReplaceAllString(result, "")
	}
	for _, re := range versionStripPatterns {
		result = re.ReplaceAllString(result, "")
	}
	for _, re := range platformPatterns {
		result = re.ReplaceAllString(result, "")
	}
	for _, re := range suffixPatterns {
		result = re.ReplaceAllString(result, "")
	}

	result = strings.TrimSpace(result)
	for strings.HasSuffix(result, "_") || strings.HasSuffix(result, " ") ||
		strings.HasSuffix(result, ".") || strings.HasSuffix(result, "~") {
		result = result[:len(result)-1]
	}
	result = strings.TrimSpace(result)

	if result == "" {
		return dirName
	}
	return result
}
