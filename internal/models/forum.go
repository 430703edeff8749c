package models

import "github.com/google/uuid"

const (
	VoteUp   = "UPVOTE"
	VoteDown = "DOWNVOTE"

	TargetTopic = "topic"
	TargetPost  = "post"
)

type ForumCategory struct {
	Base
	Name        string `gorm:"not null"             json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"order"`
	TopicCount  int64  `gorm:"-"                    json:"topicCount"`
}

// Tally is the vote summary of a topic or post.
type Tally struct {
	Upvotes   int64  `gorm:"-" json:"upvotes"`
	Downvotes int64  `gorm:"-" json:"downvotes"`
	NetVotes  int64  `gorm:"-" json:"netVotes"`
	UserVote  string `gorm:"-" json:"userVote,omitempty"`
}

type ForumTopic struct {
	Base
	Tally
	CategoryID uuid.UUID      `gorm:"type:uuid;index;not null" json:"categoryId"`
	Category   *ForumCategory `gorm:"foreignKey:CategoryID"    json:"category,omitempty"`
	AuthorID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"authorId"`
	Author     *User          `gorm:"foreignKey:AuthorID"      json:"author,omitempty"`
	Title      string         `gorm:"not null"                 json:"title"`
	Slug       string         `gorm:"uniqueIndex;not null"     json:"slug"`
	Content    string         `gorm:"type:text;not null"       json:"content"`
	IsPinned   bool           `gorm:"index"                    json:"isPinned"`
	IsLocked   bool           `json:"isLocked"`
	Views      int64          `json:"views"`
	PostCount  int64          `gorm:"-"                        json:"postCount"`
}

type ForumPost struct {
	Base
	Tally
	TopicID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"topicId"`
	AuthorID   uuid.UUID   `gorm:"type:uuid;index;not null" json:"authorId"`
	Author     *User       `gorm:"foreignKey:AuthorID"      json:"author,omitempty"`
	ParentID   *uuid.UUID  `gorm:"type:uuid;index"          json:"parentId,omitempty"`
	Content    string      `gorm:"type:text;not null"       json:"content"`
	IsAccepted bool        `json:"isAccepted"`
	Replies    []ForumPost `gorm:"-"                        json:"replies"`
}

// ForumVote is one user's vote on a topic or post; a user holds at most one per target.
type ForumVote struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_target" json:"userId"`
	TargetType string    `gorm:"size:8;not null;uniqueIndex:idx_vote_target"   json:"targetType"`
	TargetID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_target;index" json:"targetId"`
	Type       string    `gorm:"size:8;not null"                                json:"type"`
}
