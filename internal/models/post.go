package models

import (
	"time"
)

const (
	// PostStringLength is the number of characters shown by Post.String.
	PostStringLength = 15
	// PostTitleLength is the number of characters used as a detail page title.
	PostTitleLength = 30
)

// Post is a single authored text entry, optionally grouped and illustrated.
// Posts are hard-deleted so the store cascades to their comments.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index;not null" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	// Image is a path relative to the media root, empty when the post has none.
	Image    string    `gorm:"size:255" json:"image,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Post) String() string {
	return truncateRunes(p.Text, PostStringLength)
}

// Title is the detail page heading derived from the post text.
func (p *Post) Title() string {
	return truncateRunes(p.Text, PostTitleLength)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
