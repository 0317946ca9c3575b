// Package repository contains the gorm backed tables used by the services
package repository

import (
	"bitwise74/media-api/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// AZ = A - Z as in alphabetic same for ZA
var SortOptions = map[string]string{
	"newest":    "created_at desc",
	"oldest":    "created_at asc",
	"az":        "storage_path asc",
	"za":        "storage_path desc",
	"size-asc":  "size_bytes asc",
	"size-desc": "size_bytes desc",
}

type ListOptions struct {
	Bucket model.Bucket // Empty means every bucket
	Sort   string
	Page   int
	Limit  int
}

type MediaRepo struct {
	db *gorm.DB
}

func NewMediaRepo(db *gorm.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// Insert writes m to media_files and bumps the owner's stats in the same
// transaction. The generated id is returned.
func (r *MediaRepo) Insert(ctx context.Context, m *model.MediaFile) (string, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		res := tx.
			Model(model.Stats{}).
			Where("user_id = ?", m.UserID).
			Updates(map[string]any{
				"used_storage":   gorm.Expr("used_storage + ?", m.SizeBytes),
				"uploaded_files": gorm.Expr("uploaded_files + ?", 1),
			})
		if res.Error != nil {
			return res.Error
		}

		// Users created before stats existed won't have a row yet
		if res.RowsAffected == 0 {
			return tx.Create(&model.Stats{
				UserID:        m.UserID,
				UsedStorage:   m.SizeBytes,
				UploadedFiles: 1,
			}).Error
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert media file, %w", err)
	}

	return m.ID, nil
}

func (r *MediaRepo) ListByUser(ctx context.Context, userID string, opts ListOptions) ([]model.MediaFile, error) {
	order, ok := SortOptions[opts.Sort]
	if !ok {
		order = SortOptions["newest"]
	}

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if opts.Bucket != "" {
		q = q.Where("storage_bucket = ?", opts.Bucket)
	}

	entries := []model.MediaFile{}

	err := q.
		Order(order).
		Offset(opts.Page * opts.Limit).
		Limit(opts.Limit).
		Find(&entries).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list media files, %w", err)
	}

	return entries, nil
}

func (r *MediaRepo) Stats(ctx context.Context, userID string) (*model.Stats, error) {
	stats := model.Stats{UserID: userID}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&stats).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats, %w", err)
	}

	return &stats, nil
}
