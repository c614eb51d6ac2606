package model

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	LinkID    int64     `json:"linkId"`
	UserID    int64     `json:"userId"`
	ParentID  *int64    `json:"parentCommentId,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
