package dto

// TrendingTag 热门标签
type TrendingTag struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// ReindexResult 搜索索引重建结果
type ReindexResult struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
