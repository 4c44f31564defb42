package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Kind names the plan a snapshot belongs to.
type Kind string

const (
	KindWorkout   Kind = "workout"
	KindNutrition Kind = "nutrition"
)

var (
	ErrObjectNotFound  = errors.New("object not found in storage")
	ErrArchiveDisabled = errors.New("plan archive is not enabled")
)

// PlanArchive keeps a JSON snapshot of every saved plan.
type PlanArchive interface {
	// Put stores payload as a new snapshot and returns its object key.
	Put(ctx context.Context, kind Kind, clientID string, payload any) (string, error)

	// LatestURL returns a temporary GET URL for the newest snapshot of a client's plan.
	LatestURL(ctx context.Context, kind Kind, clientID string, expires time.Duration) (string, error)
}

// prefix is the folder holding every snapshot of one plan.
func prefix(kind Kind, clientID string) string {
	return fmt.Sprintf("plans/%s/%s/", clientID, kind)
}

// objectKey sorts chronologically within its prefix.
func objectKey(kind Kind, clientID string, at time.Time, id string) string {
	return prefix(kind, clientID) + at.UTC().Format("20060102T150405.000000000Z") + "-" + id + ".json"
}

// NopArchive is used when archiving is switched off.
type NopArchive struct{}

func (NopArchive) Put(context.Context, Kind, string, any) (string, error) { return "", nil }

func (NopArchive) LatestURL(context.Context, Kind, string, time.Duration) (string, error) {
	return "", ErrArchiveDisabled
}
