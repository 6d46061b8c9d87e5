package services

import (
	"suurdle/internal/models"

	"gorm.io/gorm"
)

// Target is the capability set a votable/deletable entity kind exposes.
// Votes and comments reference their parent as (TargetID, TargetKind);
// everything that needs to branch on the kind goes through this table
// instead of comparing strings at the call site.
type Target interface {
	// ApplyScore shifts the target's score by delta and returns the new
	// value. It must not touch the target's updated_at: voting alone
	// should never make content look recently edited.
	ApplyScore(tx *gorm.DB, id uint, delta int) (int, error)
	// CascadeDelete removes the target and everything hanging off it,
	// recording progress in res.
	CascadeDelete(tx *gorm.DB, id uint, res *CascadeResult)
}

var targets = map[models.TargetKind]Target{
	models.TargetAssignment: assignmentTarget{},
	models.TargetComment:    commentTarget{},
}

// TargetFor resolves a kind to its handler.
func TargetFor(kind models.TargetKind) (Target, bool) {
	t, ok := targets[kind]
	return t, ok
}

type assignmentTarget struct{}

func (assignmentTarget) ApplyScore(tx *gorm.DB, id uint, delta int) (int, error) {
	return applyScore(tx, &models.Assignment{}, id, delta)
}

func (assignmentTarget) CascadeDelete(tx *gorm.DB, id uint, res *CascadeResult) {
	deleteAssignmentInto(tx, id, res)
}

type commentTarget struct{}

func (commentTarget) ApplyScore(tx *gorm.DB, id uint, delta int) (int, error) {
	return applyScore(tx, &models.Comment{}, id, delta)
}

func (commentTarget) CascadeDelete(tx *gorm.DB, id uint, res *CascadeResult) {
	deleteCommentInto(tx, id, res)
}

// applyScore uses UpdateColumn so gorm leaves updated_at alone.
func applyScore(tx *gorm.DB, model interface{}, id uint, delta int) (int, error) {
	result := tx.Model(model).Where("id = ?", id).
		UpdateColumn("score", gorm.Expr("score + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var scores []int
	if err := tx.Model(model).Where("id = ?", id).Pluck("score", &scores).Error; err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, ErrNotFound
	}
	return scores[0], nil
}
