package entity

import (
	"time"

	"github.com/google/uuid"
)

type OpinionStatus string

const (
	OpinionStatusPending   OpinionStatus = "pending"
	OpinionStatusPublished OpinionStatus = "published"
	OpinionStatusRejected  OpinionStatus = "rejected"
)

type Opinion struct {
	Id              uuid.UUID
	Headline        string
	SubHeadline     string
	Body            string
	AuthorName      string
	AuthorTitle     string
	AuthorEmail     string
	Category        string
	Status          OpinionStatus
	RejectionReason string
	ReviewedBy      *uuid.UUID
	SubmittedAt     time.Time
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// CanTransitionTo allows pending -> published|rejected only.
func (o *Opinion) CanTransitionTo(next OpinionStatus) bool {
	return o.Status == OpinionStatusPending && (next == OpinionStatusPublished || next == OpinionStatusRejected)
}
