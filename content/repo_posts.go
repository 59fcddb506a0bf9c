package content

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type PostsRepository struct {
	db *bun.DB
}

func NewPostsRepository(db *bun.DB) *PostsRepository {
	return &PostsRepository{db: db}
}

func (r *PostsRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	if _, err := r.db.NewInsert().Model(post).Exec(ctx); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostsRepository) GetByID(ctx context.Context, id int64) (*Post, error) {
	post := &Post{}
	err := r.db.NewSelect().
		Model(post).
		Relation("Page").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (r *PostsRepository) List(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	err := r.db.NewSelect().
		Model(&posts).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByPageIDs filters posts to a set of pages. Used by the
// followed-pages feed; an empty set short-circuits to no rows.
func (r *PostsRepository) ListByPageIDs(ctx context.Context, pageIDs []uuid.UUID) ([]*Post, error) {
	posts := []*Post{}
	if len(pageIDs) == 0 {
		return posts, nil
	}

	err := r.db.NewSelect().
		Model(&posts).
		Where("page_id IN (?)", bun.In(pageIDs)).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostsRepository) Update(ctx context.Context, post *Post) (*Post, error) {
	now := time.Now()
	post.UpdatedAt = &now

	_, err := r.db.NewUpdate().
		Model(post).
		Column("content", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeleteByID removes a post and clears the reply reference on its
// replies: deleting a parent never cascades into the thread.
func (r *PostsRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model((*Post)(nil)).
			Set("reply_to_id = NULL").
			Where("reply_to_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*Post)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}

		if rows, err := res.RowsAffected(); err == nil && rows == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}
