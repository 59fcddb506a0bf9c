package content

import (
	"time"

	"github.com/goliatone/innotter/auth"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page is a followable content channel. The ID is opaque and
// non-sequential on purpose: page URLs are shared publicly.
//
// A user appears in Followers or FollowRequests for a page, never
// both. Acceptance moves the row; it does not copy it.
type Page struct {
	bun.BaseModel  `bun:"table:pages,alias:pg"`
	ID             uuid.UUID    `bun:"id,pk,type:uuid" json:"id"`
	Name           string       `bun:"name,notnull" json:"name"`
	Description    string       `bun:"description" json:"description,omitempty"`
	Image          string       `bun:"image" json:"image,omitempty"`
	OwnerID        uuid.UUID    `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	Owner          *auth.User   `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
	IsPrivate      bool         `bun:"is_private" json:"is_private"`
	UnblockDate    *time.Time   `bun:"unblock_date,nullzero" json:"unblock_date,omitempty"`
	Tags           []*Tag       `bun:"m2m:page_tags,join:Page=Tag" json:"tags,omitempty"`
	Followers      []*auth.User `bun:"m2m:page_followers,join:Page=User" json:"followers,omitempty"`
	FollowRequests []*auth.User `bun:"m2m:page_follow_requests,join:Page=User" json:"follow_requests,omitempty"`
	CreatedAt      *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Post belongs to exactly one page. ReplyTo is a nullable self
// reference; deleting the parent clears the reference on its replies
// instead of cascading.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	PageID        uuid.UUID  `bun:"page_id,notnull,type:uuid" json:"page_id"`
	Page          *Page      `bun:"rel:belongs-to,join:page_id=id" json:"page,omitempty"`
	Content       string     `bun:"content,notnull" json:"content"`
	ReplyToID     *int64     `bun:"reply_to_id,nullzero" json:"reply_to_id,omitempty"`
	ReplyTo       *Post      `bun:"rel:belongs-to,join:reply_to_id=id" json:"reply_to,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// MaxPostContentLength bounds post bodies.
const MaxPostContentLength = 180

// Tag has a unique name and a many-to-many relation with pages.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:tag"`
	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	Name          string  `bun:"name,notnull,unique" json:"name"`
	Pages         []*Page `bun:"m2m:page_tags,join:Tag=Page" json:"pages,omitempty"`
}

// MaxTagNameLength bounds tag names.
const MaxTagNameLength = 30

// PageTag is the pages<->tags join model.
type PageTag struct {
	bun.BaseModel `bun:"table:page_tags,alias:pgt"`
	PageID        uuid.UUID `bun:"page_id,pk,type:uuid"`
	Page          *Page     `bun:"rel:belongs-to,join:page_id=id"`
	TagID         int64     `bun:"tag_id,pk"`
	Tag           *Tag      `bun:"rel:belongs-to,join:tag_id=id"`
}

// PageFollower is the approved follower set.
type PageFollower struct {
	bun.BaseModel `bun:"table:page_followers,alias:pgf"`
	PageID        uuid.UUID  `bun:"page_id,pk,type:uuid"`
	Page          *Page      `bun:"rel:belongs-to,join:page_id=id"`
	UserID        uuid.UUID  `bun:"user_id,pk,type:uuid"`
	User          *auth.User `bun:"rel:belongs-to,join:user_id=id"`
}

// PageFollowRequest is the pending set awaiting owner action.
type PageFollowRequest struct {
	bun.BaseModel `bun:"table:page_follow_requests,alias:pgr"`
	PageID        uuid.UUID  `bun:"page_id,pk,type:uuid"`
	Page          *Page      `bun:"rel:belongs-to,join:page_id=id"`
	UserID        uuid.UUID  `bun:"user_id,pk,type:uuid"`
	User          *auth.User `bun:"rel:belongs-to,join:user_id=id"`
}

// RegisterModels registers the join models bun needs to resolve the
// m2m relations. Call once right after opening the DB.
func RegisterModels(db *bun.DB) {
	db.RegisterModel(
		(*PageTag)(nil),
		(*PageFollower)(nil),
		(*PageFollowRequest)(nil),
	)
}
