package domain

// Metadata 是 provider 查询得到的结构化元数据（最小可用集）。
//
// 约束：
// - 各来源 schema 不同，任何字段都允许缺失（空串/空切片即缺失）
// - provider 只负责填充，不做跨来源合并（合并由 scan 层统一实现）
type Metadata struct {
	Title       string   `json:"title,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Description string   `json:"description,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Developer   string   `json:"developer,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// QueryResult 是单条查询结果：元数据 + 来源 provider 名 + 置信度。
//
// 不变量：
// - Confidence ∈ [0,1]
// - []QueryResult 始终按 Confidence 降序排列（并列保持 registry 顺序）
type QueryResult struct {
	Meta       Metadata `json:"meta"`
	Source     string   `json:"source"`
	Confidence float64  `json:"confidence"`
}
