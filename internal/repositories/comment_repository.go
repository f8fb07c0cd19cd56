package repositories

import (
	"github.com/JeBooking/UCBE/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id string) (*models.Comment, error)
	GetMainCommentsByURL(url string) ([]models.Comment, error)
	GetRepliesByURL(url string) ([]models.Comment, error)
	GetReplyIDs(parentID string) ([]string, error)
	DeleteComment(id string) error
	DeleteReplies(parentID string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetMainCommentsByURL retrieves top-level comments for a normalized URL,
// newest first
func (r *PostgresCommentRepository) GetMainCommentsByURL(url string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("url = ? AND parent_id IS NULL", url).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetRepliesByURL retrieves all replies for a normalized URL, oldest first
// so a conversation reads chronologically
func (r *PostgresCommentRepository) GetRepliesByURL(url string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("url = ? AND parent_id IS NOT NULL", url).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetReplyIDs returns the ids of direct replies to a comment
func (r *PostgresCommentRepository) GetReplyIDs(parentID string) ([]string, error) {
	var ids []string
	if err := r.db.Model(&models.Comment{}).Where("parent_id = ?", parentID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Comment{}).Error
}

// DeleteReplies deletes the direct replies of a comment
func (r *PostgresCommentRepository) DeleteReplies(parentID string) error {
	return r.db.Where("parent_id = ?", parentID).Delete(&models.Comment{}).Error
}
