package model

// Bookmark is the per-(subject,user) relation shared by links and groups.
// A missing row is equivalent to IsBookmarked=false.
type Bookmark struct {
	SubjectID    int64 `json:"subjectId"`
	UserID       int64 `json:"userId"`
	IsBookmarked bool  `json:"isBookmarked"`
}
