package usecase

import (
	"context"
	"strings"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/infrastructure/ratelimit"
	"roomlink/pkg/errors"
)

const maxCommentLength = 2000

type CommentUseCase struct {
	commentRepo repository.CommentRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	notifier    CommentNotifier
	limiter     ActionLimiter
}

func NewCommentUseCase(
	commentRepo repository.CommentRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	notifier CommentNotifier,
	limiter ActionLimiter,
) *CommentUseCase {
	if limiter == nil {
		limiter = allowAll{}
	}
	return &CommentUseCase{
		commentRepo: commentRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		limiter:     limiter,
	}
}

type AddCommentInput struct {
	Text             string
	ReplyToCommentID string
}

func (uc *CommentUseCase) AddComment(ctx context.Context, user *entity.User, listingID string, input AddCommentInput) (*entity.Comment, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.BadRequest("Comment cannot be empty", nil)
	}
	if len([]rune(text)) > maxCommentLength {
		return nil, errors.BadRequest("Comment is too long", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Hidden && !canManage(user, listing) {
		return nil, errors.NotFound("Listing", nil)
	}

	if listing.PosterID != user.ID {
		poster, err := uc.userRepo.GetByID(ctx, listing.PosterID)
		if err != nil {
			return nil, err
		}
		if blockedEitherWay(user, poster) {
			return nil, errors.Forbidden("You cannot comment on this listing", nil)
		}
	}

	var parent *entity.Comment
	if input.ReplyToCommentID != "" {
		parent, err = uc.commentRepo.GetByID(ctx, listingID, input.ReplyToCommentID)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				return nil, errors.BadRequest("The comment you are replying to does not exist", err)
			}
			return nil, err
		}
		if parent.ListingID != listingID || parent.Hidden {
			return nil, errors.BadRequest("The comment you are replying to does not exist", nil)
		}
	}

	if ok, wait := uc.limiter.Allow(user.ID, ratelimit.ActionComment); !ok {
		return nil, errors.TooManyRequests("You are commenting too fast", wait)
	}

	comment := &entity.Comment{
		ListingID:        listingID,
		UserID:           user.ID,
		Text:             text,
		ReplyToCommentID: input.ReplyToCommentID,
		CreatedAt:        time.Now(),
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		uc.notifier.NotifyNewComment(comment, listing, parent)
	}
	return comment, nil
}

// ListComments returns visible comments oldest first.
func (uc *CommentUseCase) ListComments(ctx context.Context, listingID string) ([]*entity.Comment, error) {
	if _, err := uc.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	all, err := uc.commentRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	visible := make([]*entity.Comment, 0, len(all))
	for _, c := range all {
		if !c.Hidden {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (uc *CommentUseCase) ListThreads(ctx context.Context, listingID string) ([]*entity.CommentThread, error) {
	comments, err := uc.ListComments(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return BuildThreads(comments), nil
}

// BuildThreads groups replies, at any depth, under their top-level comment.
// Replies whose ancestor is missing or hidden are promoted to the top level.
// Input and output are oldest first.
func BuildThreads(comments []*entity.Comment) []*entity.CommentThread {
	byID := make(map[string]*entity.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	root := func(c *entity.Comment) string {
		seen := map[string]bool{}
		cur := c
		for cur.ReplyToCommentID != "" && !seen[cur.ID] {
			seen[cur.ID] = true
			parent, ok := byID[cur.ReplyToCommentID]
			if !ok {
				break
			}
			cur = parent
		}
		return cur.ID
	}

	threads := []*entity.CommentThread{}
	index := make(map[string]*entity.CommentThread)
	for _, c := range comments {
		r := root(c)
		if r == c.ID {
			t := &entity.CommentThread{Comment: c, Replies: []*entity.Comment{}}
			index[c.ID] = t
			threads = append(threads, t)
		}
	}
	for _, c := range comments {
		r := root(c)
		if r == c.ID {
			continue
		}
		if t, ok := index[r]; ok {
			t.Replies = append(t.Replies, c)
		}
	}
	return threads
}

func (uc *CommentUseCase) HideComment(ctx context.Context, user *entity.User, listingID, commentID string) error {
	comment, err := uc.commentRepo.GetByID(ctx, listingID, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != user.ID && !user.IsAdmin() {
		return errors.Forbidden("You can only hide your own comments", nil)
	}
	return uc.commentRepo.SetHidden(ctx, listingID, commentID, true)
}
