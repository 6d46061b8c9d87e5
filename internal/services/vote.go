package services

import (
	"errors"
	"suurdle/internal/models"

	"gorm.io/gorm"
)

// ApplyVote records username's vote on a target and returns the new score.
//
// State transitions per (prior vote, requested direction):
//
//	none     + up   -> create upvote    (+1)
//	none     + down -> create downvote  (-1)
//	up       + up   -> remove vote      (-1)
//	down     + down -> remove vote      (+1)
//	up       + down -> flip to downvote (-2)
//	down     + up   -> flip to upvote   (+2)
func ApplyVote(db *gorm.DB, username string, kind models.TargetKind, targetID uint, upvote bool) (int, error) {
	target, ok := TargetFor(kind)
	if !ok {
		return 0, ErrUnknownTarget
	}

	increment := 1
	if !upvote {
		increment = -1
	}

	var newScore int
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("username = ? AND target_id = ? AND target_kind = ?",
			username, targetID, kind).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Fresh vote
			vote := models.Vote{
				Username:   username,
				TargetID:   targetID,
				TargetKind: kind,
				Upvote:     upvote,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			newScore, err = target.ApplyScore(tx, targetID, increment)
			return err

		case err != nil:
			return err

		case existing.Upvote == upvote:
			// Same direction again removes the vote
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			newScore, err = target.ApplyScore(tx, targetID, -increment)
			return err

		default:
			// Opposite direction flips the vote
			if err := tx.Model(&existing).Update("upvote", upvote).Error; err != nil {
				return err
			}
			newScore, err = target.ApplyScore(tx, targetID, 2*increment)
			return err
		}
	})
	return newScore, err
}

// CountVotes returns the number of up and down votes on a target.
func CountVotes(db *gorm.DB, kind models.TargetKind, targetID uint) (up int64, down int64) {
	db.Model(&models.Vote{}).
		Where("target_id = ? AND target_kind = ? AND upvote = ?", targetID, kind, true).
		Count(&up)
	db.Model(&models.Vote{}).
		Where("target_id = ? AND target_kind = ? AND upvote = ?", targetID, kind, false).
		Count(&down)
	return up, down
}
