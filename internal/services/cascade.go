package services

import (
	"fmt"
	"suurdle/internal/models"

	"gorm.io/gorm"
)

// CascadeResult enumerates what a cascading delete removed and what it
// could not. Nothing is rolled back on partial failure: a failed step is
// recorded and the walk keeps going.
type CascadeResult struct {
	Deleted map[string]int
	Failed  []string
}

func newCascadeResult() *CascadeResult {
	return &CascadeResult{Deleted: map[string]int{}}
}

func (r *CascadeResult) add(kind string, n int) {
	if n > 0 {
		r.Deleted[kind] += n
	}
}

func (r *CascadeResult) fail(step string, err error) {
	r.Failed = append(r.Failed, fmt.Sprintf("%s: %v", step, err))
}

// OK reports whether every step of the cascade succeeded.
func (r *CascadeResult) OK() bool {
	return len(r.Failed) == 0
}

// DeleteDomain removes a domain and, through its subjects, everything
// underneath it.
func DeleteDomain(db *gorm.DB, domainID uint) *CascadeResult {
	res := newCascadeResult()

	var subjectIDs []uint
	if err := db.Model(&models.Subject{}).Where("domain_id = ?", domainID).
		Pluck("id", &subjectIDs).Error; err != nil {
		res.fail("list subjects", err)
	} else {
		for _, id := range subjectIDs {
			deleteSubjectInto(db, id, res)
		}
	}

	result := db.Delete(&models.Domain{}, domainID)
	if result.Error != nil {
		res.fail("delete domain", result.Error)
	} else {
		res.add("Domain", int(result.RowsAffected))
	}
	return res
}

// DeleteSubject removes a subject and all of its assignments.
func DeleteSubject(db *gorm.DB, subjectID uint) *CascadeResult {
	res := newCascadeResult()
	deleteSubjectInto(db, subjectID, res)
	return res
}

func deleteSubjectInto(db *gorm.DB, subjectID uint, res *CascadeResult) {
	var assignmentIDs []uint
	if err := db.Model(&models.Assignment{}).Where("subject_id = ?", subjectID).
		Pluck("id", &assignmentIDs).Error; err != nil {
		res.fail("list assignments", err)
	} else {
		for _, id := range assignmentIDs {
			deleteAssignmentInto(db, id, res)
		}
	}

	result := db.Delete(&models.Subject{}, subjectID)
	if result.Error != nil {
		res.fail("delete subject", result.Error)
	} else {
		res.add("Subject", int(result.RowsAffected))
	}
}

// DeleteAssignment removes an assignment, its attachments (external
// objects included), comments, votes and notifications.
func DeleteAssignment(db *gorm.DB, assignmentID uint) *CascadeResult {
	res := newCascadeResult()
	deleteAssignmentInto(db, assignmentID, res)
	return res
}

func deleteAssignmentInto(db *gorm.DB, assignmentID uint, res *CascadeResult) {
	// Attachments live in the external object store too
	var attachments []models.Attachment
	if err := db.Where("assignment_id = ?", assignmentID).Find(&attachments).Error; err != nil {
		res.fail("list attachments", err)
	} else {
		for _, attachment := range attachments {
			if err := Store.Delete(attachment.ObjectID); err != nil {
				res.fail("delete attachment object", err)
			}
		}
		result := db.Where("assignment_id = ?", assignmentID).Delete(&models.Attachment{})
		if result.Error != nil {
			res.fail("delete attachments", result.Error)
		} else {
			res.add("Attachment", int(result.RowsAffected))
		}
	}

	result := db.Where("assignment_id = ?", assignmentID).Delete(&models.Tag{})
	if result.Error != nil {
		res.fail("delete tags", result.Error)
	} else {
		res.add("Tag", int(result.RowsAffected))
	}

	// Comments (each takes its replies and votes along)
	var commentIDs []uint
	if err := db.Model(&models.Comment{}).
		Where("target_id = ? AND target_kind = ?", assignmentID, models.TargetAssignment).
		Pluck("id", &commentIDs).Error; err != nil {
		res.fail("list comments", err)
	} else {
		for _, id := range commentIDs {
			deleteCommentInto(db, id, res)
		}
	}

	result = db.Where("target_id = ? AND target_kind = ?", assignmentID, models.TargetAssignment).
		Delete(&models.Vote{})
	if result.Error != nil {
		res.fail("delete votes", result.Error)
	} else {
		res.add("Vote", int(result.RowsAffected))
	}

	result = db.Where("assignment_id = ?", assignmentID).Delete(&models.Notification{})
	if result.Error != nil {
		res.fail("delete notifications", result.Error)
	} else {
		res.add("Notification", int(result.RowsAffected))
	}

	result = db.Delete(&models.Assignment{}, assignmentID)
	if result.Error != nil {
		res.fail("delete assignment", result.Error)
	} else {
		res.add("Assignment", int(result.RowsAffected))
	}
}

// DeleteComment removes a comment, its replies and all votes on both.
func DeleteComment(db *gorm.DB, commentID uint) *CascadeResult {
	res := newCascadeResult()
	deleteCommentInto(db, commentID, res)
	return res
}

func deleteCommentInto(db *gorm.DB, commentID uint, res *CascadeResult) {
	var replyIDs []uint
	if err := db.Model(&models.Comment{}).
		Where("target_id = ? AND target_kind = ?", commentID, models.TargetComment).
		Pluck("id", &replyIDs).Error; err != nil {
		res.fail("list replies", err)
	} else {
		for _, id := range replyIDs {
			deleteCommentInto(db, id, res)
		}
	}

	result := db.Where("target_id = ? AND target_kind = ?", commentID, models.TargetComment).
		Delete(&models.Vote{})
	if result.Error != nil {
		res.fail("delete comment votes", result.Error)
	} else {
		res.add("Vote", int(result.RowsAffected))
	}

	result = db.Delete(&models.Comment{}, commentID)
	if result.Error != nil {
		res.fail("delete comment", result.Error)
	} else {
		res.add("Comment", int(result.RowsAffected))
	}
}

// DeleteUser removes a user and everything they own: votes, assignments
// (cascading further), comments and replies, notifications addressed to
// them and follow edges in both directions.
func DeleteUser(db *gorm.DB, user *models.User) *CascadeResult {
	res := newCascadeResult()

	if user.AvatarID != "" {
		if err := Store.Delete(user.AvatarID); err != nil {
			res.fail("delete avatar object", err)
		}
	}

	result := db.Where("username = ?", user.Username).Delete(&models.Vote{})
	if result.Error != nil {
		res.fail("delete votes", result.Error)
	} else {
		res.add("Vote", int(result.RowsAffected))
	}

	var assignmentIDs []uint
	if err := db.Model(&models.Assignment{}).Where("author = ?", user.Username).
		Pluck("id", &assignmentIDs).Error; err != nil {
		res.fail("list assignments", err)
	} else {
		for _, id := range assignmentIDs {
			deleteAssignmentInto(db, id, res)
		}
	}

	// Comments and replies in one sweep; each cascade takes replies by
	// other authors along, same as deleting the comment directly would.
	var commentIDs []uint
	if err := db.Model(&models.Comment{}).Where("author = ?", user.Username).
		Pluck("id", &commentIDs).Error; err != nil {
		res.fail("list comments", err)
	} else {
		for _, id := range commentIDs {
			deleteCommentInto(db, id, res)
		}
	}

	result = db.Where("receiver = ?", user.Username).Delete(&models.Notification{})
	if result.Error != nil {
		res.fail("delete notifications", result.Error)
	} else {
		res.add("Notification", int(result.RowsAffected))
	}

	result = db.Where("follower = ? OR followed = ?", user.Username, user.Username).
		Delete(&models.Follow{})
	if result.Error != nil {
		res.fail("delete follows", result.Error)
	} else {
		res.add("Follow", int(result.RowsAffected))
	}

	result = db.Delete(&models.User{}, user.ID)
	if result.Error != nil {
		res.fail("delete user", result.Error)
	} else {
		res.add("User", int(result.RowsAffected))
	}
	return res
}
