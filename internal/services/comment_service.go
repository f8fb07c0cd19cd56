package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/JeBooking/UCBE/internal/models"
	"github.com/JeBooking/UCBE/internal/repositories"
	"github.com/JeBooking/UCBE/pkg/urlnorm"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentService exposes the comment operations consumed by the HTTP layer
type CommentService interface {
	ListThreaded(url, viewerDeviceID string) ([]models.CommentView, error)
	CreateComment(req *models.CreateCommentRequest) (*models.CommentView, error)
	ToggleLike(commentID, deviceID string) (bool, error)
	DeleteComment(commentID, deviceID string) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	likeRepo    repositories.LikeRepository
	userRepo    repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, likeRepo repositories.LikeRepository, userRepo repositories.UserRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
	}
}

// ListThreaded returns the two-level comment tree for a page: top-level
// comments newest first, each with its replies oldest first, annotated
// with like counts and the viewer's own like state. Replies whose parent
// is itself a reply are flattened under the nearest top-level ancestor.
func (s *commentService) ListThreaded(url, viewerDeviceID string) ([]models.CommentView, error) {
	normalizedURL, err := urlnorm.Normalize(url)
	if err != nil {
		return nil, err
	}

	mains, err := s.commentRepo.GetMainCommentsByURL(normalizedURL)
	if err != nil {
		log.Printf("ListThreaded: fetching main comments failed: %v", err)
		return nil, fmt.Errorf("%w: fetch comments", ErrInternal)
	}
	if len(mains) == 0 {
		return []models.CommentView{}, nil
	}

	replies, err := s.commentRepo.GetRepliesByURL(normalizedURL)
	if err != nil {
		log.Printf("ListThreaded: fetching replies failed: %v", err)
		return nil, fmt.Errorf("%w: fetch replies", ErrInternal)
	}

	allIDs := make([]string, 0, len(mains)+len(replies))
	parentOf := make(map[string]*string, len(mains)+len(replies))
	for i := range mains {
		allIDs = append(allIDs, mains[i].ID)
		parentOf[mains[i].ID] = nil
	}
	for i := range replies {
		allIDs = append(allIDs, replies[i].ID)
		parentOf[replies[i].ID] = replies[i].ParentID
	}

	counts, err := s.likeRepo.CountLikesByCommentIDs(allIDs)
	if err != nil {
		log.Printf("ListThreaded: counting likes failed: %v", err)
		return nil, fmt.Errorf("%w: count likes", ErrInternal)
	}

	likedIDs, err := s.likeRepo.LikedCommentIDs(viewerDeviceID, allIDs)
	if err != nil {
		log.Printf("ListThreaded: fetching viewer likes failed: %v", err)
		return nil, fmt.Errorf("%w: fetch viewer likes", ErrInternal)
	}
	liked := make(map[string]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}

	view := func(c models.Comment) models.CommentView {
		return models.CommentView{
			Comment:    c,
			LikesCount: counts[c.ID],
			IsLiked:    liked[c.ID],
			Replies:    []models.CommentView{},
		}
	}

	nodes := make([]models.CommentView, 0, len(mains))
	index := make(map[string]int, len(mains))
	for _, main := range mains {
		index[main.ID] = len(nodes)
		nodes = append(nodes, view(main))
	}

	for _, reply := range replies {
		if top, ok := topLevelAncestor(reply, parentOf); ok {
			if i, found := index[top]; found {
				nodes[i].Replies = append(nodes[i].Replies, view(reply))
			}
		}
	}

	return nodes, nil
}

// topLevelAncestor walks parent links until it reaches a top-level
// comment. Depth is bounded so a corrupt parent cycle cannot spin.
func topLevelAncestor(reply models.Comment, parentOf map[string]*string) (string, bool) {
	current := reply.ParentID
	for depth := 0; current != nil && depth < 32; depth++ {
		parent, ok := parentOf[*current]
		if !ok {
			return "", false
		}
		if parent == nil {
			return *current, true
		}
		current = parent
	}
	return "", false
}

// CreateComment stores a new comment, upserting the device's user row
// and verifying that a given parent exists under the same normalized URL.
func (s *commentService) CreateComment(req *models.CreateCommentRequest) (*models.CommentView, error) {
	normalizedURL, err := urlnorm.Normalize(req.URL)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUser(req.DeviceID, req.DisplayName); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetCommentByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			log.Printf("CreateComment: fetching parent failed: %v", err)
			return nil, fmt.Errorf("%w: fetch parent", ErrInternal)
		}
		if parent.URL != normalizedURL {
			return nil, ErrParentNotFound
		}
	}

	comment := &models.Comment{
		ID:          uuid.NewString(),
		URL:         normalizedURL,
		Content:     req.Content,
		DeviceID:    req.DeviceID,
		DisplayName: req.DisplayName,
		ParentID:    req.ParentID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.commentRepo.CreateComment(comment); err != nil {
		log.Printf("CreateComment: insert failed: %v", err)
		return nil, fmt.Errorf("%w: create comment", ErrInternal)
	}

	return &models.CommentView{
		Comment:    *comment,
		LikesCount: 0,
		IsLiked:    false,
		Replies:    []models.CommentView{},
	}, nil
}

// ToggleLike flips the (comment, device) like state and reports the new
// state. Each call has exactly one outcome.
func (s *commentService) ToggleLike(commentID, deviceID string) (bool, error) {
	if _, err := s.commentRepo.GetCommentByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCommentNotFound
		}
		log.Printf("ToggleLike: fetching comment failed: %v", err)
		return false, fmt.Errorf("%w: fetch comment", ErrInternal)
	}

	hasLiked, err := s.likeRepo.HasDeviceLikedComment(commentID, deviceID)
	if err != nil {
		log.Printf("ToggleLike: checking like state failed: %v", err)
		return false, fmt.Errorf("%w: check like", ErrInternal)
	}

	if hasLiked {
		if err := s.likeRepo.DeleteLike(commentID, deviceID); err != nil {
			log.Printf("ToggleLike: removing like failed: %v", err)
			return false, fmt.Errorf("%w: remove like", ErrInternal)
		}
		return false, nil
	}

	like := &models.Like{
		ID:        uuid.NewString(),
		CommentID: commentID,
		DeviceID:  deviceID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.likeRepo.CreateLike(like); err != nil {
		log.Printf("ToggleLike: adding like failed: %v", err)
		return false, fmt.Errorf("%w: add like", ErrInternal)
	}
	return true, nil
}

// DeleteComment removes a comment owned by the caller together with its
// likes and direct replies (and those replies' likes).
func (s *commentService) DeleteComment(commentID, deviceID string) error {
	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFoundOrForbidden
		}
		log.Printf("DeleteComment: fetching comment failed: %v", err)
		return fmt.Errorf("%w: fetch comment", ErrInternal)
	}
	if comment.DeviceID != deviceID {
		return ErrNotFoundOrForbidden
	}

	replyIDs, err := s.commentRepo.GetReplyIDs(commentID)
	if err != nil {
		log.Printf("DeleteComment: fetching reply ids failed: %v", err)
		return fmt.Errorf("%w: fetch replies", ErrInternal)
	}

	if err := s.likeRepo.DeleteLikesByCommentIDs(append(replyIDs, commentID)); err != nil {
		log.Printf("DeleteComment: removing likes failed: %v", err)
		return fmt.Errorf("%w: remove likes", ErrInternal)
	}
	if err := s.commentRepo.DeleteReplies(commentID); err != nil {
		log.Printf("DeleteComment: removing replies failed: %v", err)
		return fmt.Errorf("%w: remove replies", ErrInternal)
	}
	if err := s.commentRepo.DeleteComment(commentID); err != nil {
		log.Printf("DeleteComment: removing comment failed: %v", err)
		return fmt.Errorf("%w: remove comment", ErrInternal)
	}
	return nil
}

// ensureUser inserts the device's user row on first write and keeps
// current_username in sync with the posted display name.
func (s *commentService) ensureUser(deviceID, displayName string) error {
	user, err := s.userRepo.GetUserByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			newUser := &models.User{
				DeviceID:        deviceID,
				CurrentUsername: displayName,
				CreatedAt:       time.Now().UTC(),
			}
			if err := s.userRepo.CreateUser(newUser); err != nil {
				log.Printf("ensureUser: insert failed: %v", err)
				return fmt.Errorf("%w: create user", ErrInternal)
			}
			return nil
		}
		log.Printf("ensureUser: lookup failed: %v", err)
		return fmt.Errorf("%w: fetch user", ErrInternal)
	}

	if user.CurrentUsername != displayName {
		if err := s.userRepo.UpdateUsername(deviceID, displayName); err != nil {
			log.Printf("ensureUser: username update failed: %v", err)
			return fmt.Errorf("%w: update username", ErrInternal)
		}
	}
	return nil
}
