package model

type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usageCount"`
}
