package domain

// PathGroup 是一个逻辑安装单元：游戏根目录 + 其下全部可执行文件。
//
// 不变量（实现必须遵守）：
// - ChildPaths 均为相对 RootPath 的路径（'/' 分隔）
// - 每次扫描创建一次，创建后不再修改，仅供 aggregate/scan 消费
type PathGroup struct {
	// RootPath 是游戏根目录的完整路径（'/' 分隔）。
	RootPath string `json:"root_path"`
	// RootName 是根目录名（最后一个路径组件）。
	RootName string `json:"root_name"`
	// ChildPaths 是相对根目录的可执行文件路径列表。
	ChildPaths []string `json:"child_paths"`
	// SearchKey 是去除标签/版本号/平台标识后的查询关键词。
	SearchKey string `json:"search_key"`
	// Version 是从目录名提取的版本号；未提取到为空串。
	Version string `json:"version,omitempty"`
}
