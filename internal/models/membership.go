package models

import (
	"errors"
	"time"
)

// MembershipSet names one of the actor's three relationship sets.
type MembershipSet string

const (
	SetFollowing MembershipSet = "following"
	SetLikes     MembershipSet = "likes"
	SetBookmarks MembershipSet = "bookmarks"
)

// MembershipAction selects an add (push) or remove (pull) on a set, never a full replacement.
type MembershipAction string

const (
	ActionPush MembershipAction = "push"
	ActionPull MembershipAction = "pull"
)

// Membership is one element of a user's following/likes/bookmarks set (PostgreSQL).
type Membership struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	UserID    uint          `json:"user_id" gorm:"index;uniqueIndex:idx_user_set_target"`
	Set       MembershipSet `json:"set" gorm:"column:set_name;size:16;uniqueIndex:idx_user_set_target"`
	TargetID  string        `json:"target_id" gorm:"size:64;uniqueIndex:idx_user_set_target"`
	CreatedAt time.Time     `json:"created_at"`
}

// MembershipValue carries exactly one of its fields.
type MembershipValue struct {
	Following string `json:"following,omitempty"`
	Likes     string `json:"likes,omitempty"`
	Bookmarks string `json:"bookmarks,omitempty"`
}

var ErrAmbiguousMembership = errors.New("membership value must name exactly one set")

// NewMembershipValue builds the value object for set.
func NewMembershipValue(set MembershipSet, targetID string) MembershipValue {
	switch set {
	case SetFollowing:
		return MembershipValue{Following: targetID}
	case SetLikes:
		return MembershipValue{Likes: targetID}
	default:
		return MembershipValue{Bookmarks: targetID}
	}
}

// Target returns the single set and target id named by v.
func (v MembershipValue) Target() (MembershipSet, string, error) {
	var (
		set    MembershipSet
		target string
		n      int
	)
	if v.Following != "" {
		set, target, n = SetFollowing, v.Following, n+1
	}
	if v.Likes != "" {
		set, target, n = SetLikes, v.Likes, n+1
	}
	if v.Bookmarks != "" {
		set, target, n = SetBookmarks, v.Bookmarks, n+1
	}
	if n != 1 {
		return "", "", ErrAmbiguousMembership
	}
	return set, target, nil
}

// UpdateMembershipRequest is the PATCH /user/:id body.
type UpdateMembershipRequest struct {
	Action MembershipAction `json:"action" validate:"required,oneof=push pull"`
	Value  MembershipValue  `json:"value"`
}
