package group

import "regexp"

// 包级预编译，避免每次扫描重复编译。

// versionPatterns 提取版本号，按序尝试，取首个捕获组：
// ver.1.0 / ver 1.0 / v.1.0 / v 1.0 / _1.0 / 1.0（结尾）
var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ver\.?\s*(\d+(?:\.\d+)*)`),
	regexp.MustCompile(`(?i)v\.?\s*(\d+(?:\.\d+)*)`),
	regexp.MustCompile(`_(\d+\.\d+(?:\.\d+)*)`),
	regexp.MustCompile(`(\d+\.\d+(?:\.\d+)*)$`),
}

// bracketPatterns 匹配需要剔除的前缀标签：【标签】 / [标签]
var bracketPatterns = []*regexp.Regexp{
	regexp.MustCompile(`【[^】]*】`),
	regexp.MustCompile(`\[[^\]]*\]`),
}

// versionStripPatterns 剔除版本号 token，允许小写字母后缀（如 1.0b）。
var versionStripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ver\.?\s*\d+(?:\.\d+)*[a-z]*`),
	regexp.MustCompile(`(?i)v\.?\s*\d+(?:\.\d+)*[a-z]*`),
	regexp.MustCompile(`_\d+\.\d+(?:\.\d+)*[a-z]*`),
	regexp.MustCompile(`\d+\.\d+(?:\.\d+)*[a-z]*$`),
}

// platformPatterns 剔除平台标识：PC版 / Windows版 / Mac版 / Linux版 / Android版 / iOS版
var platformPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)PC版`),
	regexp.MustCompile(`(?i)Windows版?`),
	regexp.MustCompile(`(?i)Mac版?`),
	regexp.MustCompile(`(?i)Linux版?`),
	regexp.MustCompile(`(?i)Android版?`),
	regexp.MustCompile(`(?i)iOS版?`),
}

// suffixPatterns 剔除结尾的汉化标记：AI汉化 / 汉化版 / 中文版 / 官中
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)AI汉化$`),
	regexp.MustCompile(`(?i)汉化版?$`),
	regexp.MustCompile(`(?i)中文版?$`),
	regexp.MustCompile(`(?i)官中$`),
}
