package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"go.uber.org/zap"
)

const maxToggleAttempts = 3

// ReactionService implements the per (target, user) reaction toggle.
type ReactionService struct {
	reactions repositories.ReactionRepository
	posts     repositories.PostRepository
	comments  repositories.CommentRepository
	messages  repositories.MessageRepository
	notifier  *NotificationService
	effects   *SideEffects
	logger    *zap.Logger
}

func NewReactionService(
	reactions repositories.ReactionRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	messages repositories.MessageRepository,
	notifier *NotificationService,
	effects *SideEffects,
	logger *zap.Logger,
) *ReactionService {
	return &ReactionService{
		reactions: reactions,
		posts:     posts,
		comments:  comments,
		messages:  messages,
		notifier:  notifier,
		effects:   effects,
		logger:    logger,
	}
}

// resolvedTarget is what the toggle needs to know about the reacted object.
type resolvedTarget struct {
	owner  models.AccountRef
	entity models.EntityRef
	// counter is nil for targets without a likes counter.
	counter func(ctx context.Context, delta int64) error
}

func (s *ReactionService) resolveTarget(ctx context.Context, actor models.AccountRef, target models.ReactionTarget) (*resolvedTarget, error) {
	switch target.Type {
	case models.TargetPost:
		return s.resolvePost(ctx, target)
	case models.TargetComment:
		return s.resolveComment(ctx, target)
	case models.TargetMessage:
		return s.resolveMessage(ctx, actor, target)
	}
	return nil, ErrInvalidTarget
}

func (s *ReactionService) resolvePost(ctx context.Context, target models.ReactionTarget) (*resolvedTarget, error) {
	post, err := s.posts.GetPostByID(ctx, target.ID)
	if err != nil {
		return nil, storeError("post", err)
	}
	return &resolvedTarget{
		owner:  post.Author,
		entity: models.EntityRef{ID: post.ID.Hex(), Type: models.EntityPost},
		counter: func(ctx context.Context, delta int64) error {
			return s.posts.IncrementLikes(ctx, post.ID, delta)
		},
	}, nil
}

func (s *ReactionService) resolveComment(ctx context.Context, target models.ReactionTarget) (*resolvedTarget, error) {
	comment, err := s.comments.GetCommentByID(ctx, target.ID)
	if err != nil {
		return nil, storeError("comment", err)
	}
	return &resolvedTarget{
		owner:  comment.Author,
		entity: models.EntityRef{ID: comment.ID.Hex(), Type: models.EntityComment},
		counter: func(ctx context.Context, delta int64) error {
			return s.comments.IncrementLikes(ctx, comment.ID, delta)
		},
	}, nil
}

// resolveMessage hides messages the actor is not part of.
func (s *ReactionService) resolveMessage(ctx context.Context, actor models.AccountRef, target models.ReactionTarget) (*resolvedTarget, error) {
	msg, err := s.messages.GetMessageByID(ctx, target.ID)
	if err != nil {
		return nil, storeError("message", err)
	}
	if msg.Sender != actor && msg.Receiver != actor {
		return nil, fmt.Errorf("message %w", ErrNotFound)
	}
	return &resolvedTarget{
		owner:  msg.Sender,
		entity: models.EntityRef{ID: msg.ID.Hex(), Type: models.EntityMessage},
	}, nil
}

func (s *ReactionService) moveCounter(ctx context.Context, rt *resolvedTarget, delta int64) {
	if rt.counter == nil {
		return
	}
	s.effects.Run(ctx, "reaction counter", func(ctx context.Context) error {
		return rt.counter(ctx, delta)
	}, zap.String("entity", rt.entity.ID), zap.Int64("delta", delta))
}

// React applies one toggle step:
//
//	NONE + T          -> REACTED(T), counter +1, owner notified
//	REACTED(T) + T    -> NONE, counter -1
//	REACTED(T1) + T2  -> REACTED(T2), counter unchanged
//
// Every write is conditional on the state it was computed from; when another
// request wins the race the step is recomputed.
func (s *ReactionService) React(ctx context.Context, actor models.AccountRef, target models.ReactionTarget, typ models.ReactionType) (*models.ReactionResult, error) {
	if !actor.IsUser() {
		return nil, ErrUsersOnly
	}
	if !typ.Valid() {
		return nil, ErrInvalidReaction
	}
	rt, err := s.resolveTarget(ctx, actor, target)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		existing, err := s.reactions.Get(ctx, target, actor.ID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			reaction := &models.Reaction{Target: target, UserID: actor.ID, Type: typ}
			err := s.reactions.Insert(ctx, reaction)
			if errors.Is(err, repositories.ErrDuplicate) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("insert reaction: %w", err)
			}
			s.moveCounter(ctx, rt, 1)
			s.effects.Run(ctx, "notify reaction", func(ctx context.Context) error {
				_, err := s.notifier.Notify(ctx, rt.owner, actor, models.NotificationReaction, rt.entity)
				return err
			}, zap.String("entity", rt.entity.ID))
			return &models.ReactionResult{State: models.ReactionStateReacted, Reaction: reaction}, nil

		case err != nil:
			return nil, fmt.Errorf("load reaction: %w", err)

		case existing.Type == typ:
			ok, err := s.reactions.Delete(ctx, target, actor.ID, typ)
			if err != nil {
				return nil, fmt.Errorf("delete reaction: %w", err)
			}
			if !ok {
				continue
			}
			s.moveCounter(ctx, rt, -1)
			return &models.ReactionResult{State: models.ReactionStateNone}, nil

		default:
			ok, err := s.reactions.UpdateType(ctx, target, actor.ID, existing.Type, typ)
			if err != nil {
				return nil, fmt.Errorf("update reaction: %w", err)
			}
			if !ok {
				continue
			}
			existing.Type = typ
			return &models.ReactionResult{State: models.ReactionStateReacted, Reaction: existing}, nil
		}
	}
	return nil, ErrConcurrentUpdate
}

// RemoveReaction moves REACTED to NONE; NONE is reported as not found.
func (s *ReactionService) RemoveReaction(ctx context.Context, actor models.AccountRef, target models.ReactionTarget) error {
	if !actor.IsUser() {
		return ErrUsersOnly
	}
	rt, err := s.resolveTarget(ctx, actor, target)
	if err != nil {
		return err
	}
	ok, err := s.reactions.Delete(ctx, target, actor.ID, "")
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	if !ok {
		return fmt.Errorf("reaction %w", ErrNotFound)
	}
	s.moveCounter(ctx, rt, -1)
	return nil
}

func (s *ReactionService) ListReactions(ctx context.Context, viewer models.AccountRef, target models.ReactionTarget) (*models.ReactionSummary, error) {
	if _, err := s.resolveTarget(ctx, viewer, target); err != nil {
		return nil, err
	}
	reactions, err := s.reactions.ListByTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}

	counts := map[models.ReactionType]int{}
	for _, r := range reactions {
		counts[r.Type]++
	}
	return &models.ReactionSummary{
		Target:    target,
		Total:     len(reactions),
		Counts:    counts,
		Reactions: reactions,
	}, nil
}
