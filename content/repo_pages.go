package content

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PagesRepository persists pages and their relation sets. Relation
// mutations take a bun.IDB so the follow state machine can run them
// inside a single transaction.
type PagesRepository struct {
	db *bun.DB
}

func NewPagesRepository(db *bun.DB) *PagesRepository {
	return &PagesRepository{db: db}
}

func (r *PagesRepository) Create(ctx context.Context, page *Page) (*Page, error) {
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(page).Exec(ctx); err != nil {
		return nil, err
	}

	if len(page.Tags) > 0 {
		if err := r.replaceTags(ctx, r.db, page); err != nil {
			return nil, err
		}
	}

	return page, nil
}

// GetByID loads a page with its owner and tags. Follower sets are
// loaded separately; most callers only need the owner for the
// permission check.
func (r *PagesRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	page := &Page{}
	err := r.db.NewSelect().
		Model(page).
		Relation("Owner").
		Relation("Tags").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return page, nil
}

// GetByIDWithRelations loads a page including both relation sets.
func (r *PagesRepository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Page, error) {
	page := &Page{}
	err := r.db.NewSelect().
		Model(page).
		Relation("Owner").
		Relation("Tags").
		Relation("Followers").
		Relation("FollowRequests").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return page, nil
}

func (r *PagesRepository) List(ctx context.Context) ([]*Page, error) {
	var pages []*Page
	err := r.db.NewSelect().
		Model(&pages).
		Relation("Owner").
		Relation("Tags").
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// Update writes the mutable columns. Ownership is immutable after
// creation: owner_id is deliberately not in the column list.
func (r *PagesRepository) Update(ctx context.Context, page *Page) (*Page, error) {
	_, err := r.db.NewUpdate().
		Model(page).
		Column("name", "description", "image", "unblock_date").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.replaceTags(ctx, r.db, page); err != nil {
		return nil, err
	}

	return page, nil
}

func (r *PagesRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{
			(*PageFollower)(nil),
			(*PageFollowRequest)(nil),
			(*PageTag)(nil),
			(*Post)(nil),
		} {
			if _, err := tx.NewDelete().Model(model).Where("page_id = ?", id).Exec(ctx); err != nil {
				return err
			}
		}

		res, err := tx.NewDelete().Model((*Page)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		if rows, err := res.RowsAffected(); err == nil && rows == 0 {
			return ErrPageNotFound
		}
		return nil
	})
}

// SetPrivate flips the privacy flag. Already-private is a no-op at the
// SQL level, which keeps the operation idempotent.
func (r *PagesRepository) SetPrivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewUpdate().
		Model((*Page)(nil)).
		Set("is_private = ?", true).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// IsFollower reports whether the user is in the approved set.
func (r *PagesRepository) IsFollower(ctx context.Context, idb bun.IDB, pageID, userID uuid.UUID) (bool, error) {
	return idb.NewSelect().
		Model((*PageFollower)(nil)).
		Where("page_id = ? AND user_id = ?", pageID, userID).
		Exists(ctx)
}

// AddFollowRequest inserts into the pending set. The conflict clause
// makes re-requests a no-op rather than a duplicate.
func (r *PagesRepository) AddFollowRequest(ctx context.Context, idb bun.IDB, pageID, userID uuid.UUID) error {
	_, err := idb.NewInsert().
		Model(&PageFollowRequest{PageID: pageID, UserID: userID}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return err
}

// PromoteFollowRequest moves a user from pending to following inside
// the caller's transaction. The delete and insert are one unit: if the
// user was not pending, nothing happens and moved is false.
func (r *PagesRepository) PromoteFollowRequest(ctx context.Context, idb bun.IDB, pageID, userID uuid.UUID) (bool, error) {
	res, err := idb.NewDelete().
		Model((*PageFollowRequest)(nil)).
		Where("page_id = ? AND user_id = ?", pageID, userID).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	_, err = idb.NewInsert().
		Model(&PageFollower{PageID: pageID, UserID: userID}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	return true, nil
}

// ListFollowedPageIDs returns the ids of pages the user follows.
func (r *PagesRepository) ListFollowedPageIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*PageFollower)(nil)).
		Column("page_id").
		Where("user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// replaceTags rewrites the page_tags rows for the page.
func (r *PagesRepository) replaceTags(ctx context.Context, idb bun.IDB, page *Page) error {
	if _, err := idb.NewDelete().
		Model((*PageTag)(nil)).
		Where("page_id = ?", page.ID).
		Exec(ctx); err != nil {
		return err
	}

	if len(page.Tags) == 0 {
		return nil
	}

	joins := make([]*PageTag, 0, len(page.Tags))
	for _, tag := range page.Tags {
		joins = append(joins, &PageTag{PageID: page.ID, TagID: tag.ID})
	}

	_, err := idb.NewInsert().
		Model(&joins).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return err
}
