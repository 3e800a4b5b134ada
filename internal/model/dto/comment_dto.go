package dto

// CreateCommentRequest 创建评论请求，parent_comment_id 为 0 或缺省表示一级评论
type CreateCommentRequest struct {
	Text            string `json:"text"`
	ParentCommentID int64  `json:"parent_comment_id" binding:"min=0"`
}

// UpdateCommentRequest 修改评论请求
type UpdateCommentRequest struct {
	Text string `json:"text" form:"text"`
}

// CommentStatus 评论状态
type CommentStatus string

const (
	StatusOriginal CommentStatus = "ORIGINAL"
	StatusEdited   CommentStatus = "EDITED"
	StatusDeleted  CommentStatus = "DELETED"
)

// CommentResponse 创建评论响应
type CommentResponse struct {
	ID              int64          `json:"id"`
	Text            string         `json:"text"`
	Author          *CommentAuthor `json:"author"`
	ParentCommentID *int64         `json:"parent_comment_id,omitempty"`
	ArticleID       int64          `json:"article_id"`
	Status          CommentStatus  `json:"status"`
	CreatedAt       string         `json:"created_at"`
}

// CommentItem 列表中的评论项
type CommentItem struct {
	ID           int64          `json:"id"`
	Text         string         `json:"text"`
	TextHTML     string         `json:"text_html,omitempty"`
	Status       CommentStatus  `json:"status"`
	Author       *CommentAuthor `json:"author"`
	Likes        int            `json:"likes"`
	CurrentLiked bool           `json:"current_user_liked"`
	Replies      *int           `json:"replies,omitempty"`
	CreatedAt    string         `json:"created_at"`
	ModifiedAt   string         `json:"modified_at"`
}

// CommentAuthor 评论作者信息
type CommentAuthor struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	ProfilePicturePath string `json:"profile_picture_path"`
}

// LikeCountMessage 点赞数推送消息
type LikeCountMessage struct {
	ID          int64 `json:"id"`
	UserID      int64 `json:"user_id"`
	Liked       bool  `json:"liked"`
	AmountLikes int   `json:"amount_likes"`
}
