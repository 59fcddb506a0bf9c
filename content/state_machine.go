package content

import (
	"context"

	"github.com/goliatone/innotter/auth"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FollowState is the relationship between a page and a user.
type FollowState string

const (
	// FollowStateNone means no relationship exists.
	FollowStateNone FollowState = "none"
	// FollowStatePending means the user sits in the follow-request queue.
	FollowStatePending FollowState = "pending"
	// FollowStateFollowing means the owner accepted the request.
	FollowStateFollowing FollowState = "following"
)

// FollowStateMachine governs page privacy and the follow-request
// queue. Valid transitions are none->pending (request) and
// pending->following (owner acceptance); there is no unfollow or
// reject transition. A user is in at most one of the two sets at any
// time, and acceptance moves the membership inside one transaction.
type FollowStateMachine struct {
	repo   RepositoryManager
	logger auth.Logger
}

func NewFollowStateMachine(repo RepositoryManager) *FollowStateMachine {
	return &FollowStateMachine{
		repo:   repo,
		logger: auth.NewNopLogger(),
	}
}

func (sm *FollowStateMachine) WithLogger(logger auth.Logger) *FollowStateMachine {
	if logger != nil {
		sm.logger = logger
	}
	return sm
}

// State reports the current relationship for a (page, user) pair.
func (sm *FollowStateMachine) State(ctx context.Context, pageID, userID uuid.UUID) (FollowState, error) {
	var state FollowState

	err := sm.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		following, err := sm.repo.Pages().IsFollower(ctx, tx, pageID, userID)
		if err != nil {
			return err
		}
		if following {
			state = FollowStateFollowing
			return nil
		}

		pending, err := tx.NewSelect().
			Model((*PageFollowRequest)(nil)).
			Where("page_id = ? AND user_id = ?", pageID, userID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if pending {
			state = FollowStatePending
			return nil
		}

		state = FollowStateNone
		return nil
	})
	if err != nil {
		return "", err
	}

	return state, nil
}

// RequestFollow transitions none->pending. Re-requesting while pending
// or following is a no-op: the conflict clause absorbs duplicates and
// an existing follower is never demoted back to the queue. Privacy
// does not gate who may request; every follow starts as a request.
func (sm *FollowStateMachine) RequestFollow(ctx context.Context, pageID, userID uuid.UUID) error {
	if _, err := sm.repo.Pages().GetByID(ctx, pageID); err != nil {
		return err
	}

	return sm.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		following, err := sm.repo.Pages().IsFollower(ctx, tx, pageID, userID)
		if err != nil {
			return err
		}
		if following {
			return nil
		}

		return sm.repo.Pages().AddFollowRequest(ctx, tx, pageID, userID)
	})
}

// AcceptFollow moves each pending target to following. Only the page
// owner may invoke it; anyone else gets Forbidden with both sets
// untouched. Targets that are not pending are skipped silently, which
// keeps batch acceptance idempotent and tolerant of partial overlap.
// Returns how many targets actually moved.
func (sm *FollowStateMachine) AcceptFollow(ctx context.Context, pageID uuid.UUID, actor auth.Identity, userIDs []uuid.UUID) (int, error) {
	page, err := sm.repo.Pages().GetByID(ctx, pageID)
	if err != nil {
		return 0, err
	}

	if !auth.IsOwner(actor, page.OwnerID.String()) {
		return 0, auth.ErrForbidden
	}

	accepted := 0
	err = sm.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, userID := range userIDs {
			moved, err := sm.repo.Pages().PromoteFollowRequest(ctx, tx, pageID, userID)
			if err != nil {
				return err
			}
			if moved {
				accepted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	sm.logger.Info("Accepted follow requests", "page_id", pageID, "accepted", accepted, "requested", len(userIDs))

	return accepted, nil
}

// MakePrivate sets the privacy flag. Owner only; already-private is a
// no-op.
func (sm *FollowStateMachine) MakePrivate(ctx context.Context, pageID uuid.UUID, actor auth.Identity) (*Page, error) {
	page, err := sm.repo.Pages().GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if !auth.IsOwner(actor, page.OwnerID.String()) {
		return nil, auth.ErrForbidden
	}

	if page.IsPrivate {
		return page, nil
	}

	if err := sm.repo.Pages().SetPrivate(ctx, pageID); err != nil {
		return nil, err
	}

	page.IsPrivate = true
	return page, nil
}
