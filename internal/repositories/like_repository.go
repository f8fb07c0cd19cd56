package repositories

import (
	"fmt"

	"github.com/JeBooking/UCBE/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for comment like operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(commentID, deviceID string) error
	HasDeviceLikedComment(commentID, deviceID string) (bool, error)
	CountLikesByCommentIDs(commentIDs []string) (map[string]int64, error)
	LikedCommentIDs(deviceID string, commentIDs []string) ([]string, error)
	DeleteLikesByCommentIDs(commentIDs []string) error
}

type postgresLikeRepository struct {
	db *gorm.DB
}

func NewPostgresLikeRepository(db *gorm.DB) LikeRepository {
	return &postgresLikeRepository{db: db}
}

func (r *postgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

func (r *postgresLikeRepository) DeleteLike(commentID, deviceID string) error {
	res := r.db.Where("comment_id = ? AND device_id = ?", commentID, deviceID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like not found")
	}
	return nil
}

func (r *postgresLikeRepository) HasDeviceLikedComment(commentID, deviceID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("comment_id = ? AND device_id = ?", commentID, deviceID).Count(&count).Error
	return count > 0, err
}

// CountLikesByCommentIDs returns like counts grouped by comment id; ids
// with no likes are absent from the map.
func (r *postgresLikeRepository) CountLikesByCommentIDs(commentIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(commentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CommentID string
		Count     int64
	}
	err := r.db.Model(&models.Like{}).
		Select("comment_id, COUNT(*) AS count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.CommentID] = row.Count
	}
	return counts, nil
}

// LikedCommentIDs returns the subset of commentIDs the device has liked
func (r *postgresLikeRepository) LikedCommentIDs(deviceID string, commentIDs []string) ([]string, error) {
	var ids []string
	if len(commentIDs) == 0 {
		return ids, nil
	}
	err := r.db.Model(&models.Like{}).
		Where("device_id = ? AND comment_id IN ?", deviceID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postgresLikeRepository) DeleteLikesByCommentIDs(commentIDs []string) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.Where("comment_id IN ?", commentIDs).Delete(&models.Like{}).Error
}
