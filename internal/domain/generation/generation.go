// Package generation records image-generation attempts and their outcomes.
// A record is created pending and driven to a terminal state by the async
// workflow after the initiating request has already returned.
package generation

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/pixamint/pixamint/internal/domain/generation/valueobjects"
)

const (
	MaxPromptLength = 2000
	DefaultSize     = "1024x1024"
)

var validSizes = map[string]bool{
	"512x512":   true,
	"768x768":   true,
	"1024x1024": true,
	"1024x1792": true,
	"1792x1024": true,
}

// Generation is the generation-attempt aggregate root.
type Generation struct {
	id           uint
	sid          string
	userID       uint
	prompt       string
	model        string
	size         string
	creditCost   int
	status       vo.Status
	assetURL     *string
	errorDetail  *string
	isPublic     bool
	likeCount    int
	viewCount    int
	attempts     int
	startedAt    *time.Time
	completedAt  *time.Time
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewGeneration creates a pending attempt. The prompt must already be
// sanitized by the caller.
func NewGeneration(sid string, userID uint, prompt, model, size string, creditCost int) (*Generation, error) {
	if sid == "" {
		return nil, fmt.Errorf("sid is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if len(prompt) > MaxPromptLength {
		return nil, ErrPromptTooLong
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if size == "" {
		size = DefaultSize
	}
	if !validSizes[size] {
		return nil, fmt.Errorf("unsupported size: %s", size)
	}
	if creditCost <= 0 {
		return nil, fmt.Errorf("credit cost must be positive")
	}

	now := time.Now().UTC()
	return &Generation{
		sid:        sid,
		userID:     userID,
		prompt:     prompt,
		model:      model,
		size:       size,
		creditCost: creditCost,
		status:     vo.StatusPending,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID          uint
	SID         string
	UserID      uint
	Prompt      string
	Model       string
	Size        string
	CreditCost  int
	Status      vo.Status
	AssetURL    *string
	ErrorDetail *string
	IsPublic    bool
	LikeCount   int
	ViewCount   int
	Attempts    int
	StartedAt   *time.Time
	CompletedAt *time.Time
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reconstruct rebuilds a generation from persistence.
func Reconstruct(p ReconstructParams) (*Generation, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("generation ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("sid is required")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid generation status: %s", p.Status)
	}
	if p.CreditCost <= 0 {
		return nil, fmt.Errorf("credit cost must be positive")
	}

	return &Generation{
		id:          p.ID,
		sid:         p.SID,
		userID:      p.UserID,
		prompt:      p.Prompt,
		model:       p.Model,
		size:        p.Size,
		creditCost:  p.CreditCost,
		status:      p.Status,
		assetURL:    p.AssetURL,
		errorDetail: p.ErrorDetail,
		isPublic:    p.IsPublic,
		likeCount:   p.LikeCount,
		viewCount:   p.ViewCount,
		attempts:    p.Attempts,
		startedAt:   p.StartedAt,
		completedAt: p.CompletedAt,
		version:     p.Version,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}, nil
}

func (g *Generation) ID() uint               { return g.id }
func (g *Generation) SID() string            { return g.sid }
func (g *Generation) UserID() uint           { return g.userID }
func (g *Generation) Prompt() string         { return g.prompt }
func (g *Generation) Model() string          { return g.model }
func (g *Generation) Size() string           { return g.size }
func (g *Generation) CreditCost() int        { return g.creditCost }
func (g *Generation) Status() vo.Status      { return g.status }
func (g *Generation) AssetURL() *string      { return g.assetURL }
func (g *Generation) ErrorDetail() *string   { return g.errorDetail }
func (g *Generation) IsPublic() bool         { return g.isPublic }
func (g *Generation) LikeCount() int         { return g.likeCount }
func (g *Generation) ViewCount() int         { return g.viewCount }
func (g *Generation) Attempts() int          { return g.attempts }
func (g *Generation) StartedAt() *time.Time  { return g.startedAt }
func (g *Generation) CompletedAt() *time.Time { return g.completedAt }
func (g *Generation) Version() int           { return g.version }
func (g *Generation) CreatedAt() time.Time   { return g.createdAt }
func (g *Generation) UpdatedAt() time.Time   { return g.updatedAt }

// SetID sets the generation ID (only for persistence layer use).
func (g *Generation) SetID(id uint) error {
	if g.id != 0 {
		return fmt.Errorf("generation ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("generation ID cannot be zero")
	}
	g.id = id
	return nil
}

// Start transitions pending to processing and counts the attempt.
func (g *Generation) Start() error {
	if !g.status.CanTransitionTo(vo.StatusProcessing) {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidState, g.status)
	}
	now := time.Now().UTC()
	g.status = vo.StatusProcessing
	g.startedAt = &now
	g.attempts++
	g.touch()
	return nil
}

// Complete records a successful attempt with its permanent asset reference.
func (g *Generation) Complete(assetURL string) error {
	if assetURL == "" {
		return fmt.Errorf("asset URL is required")
	}
	if !g.status.CanTransitionTo(vo.StatusCompleted) {
		return fmt.Errorf("%w: cannot complete from %s", ErrInvalidState, g.status)
	}
	now := time.Now().UTC()
	g.status = vo.StatusCompleted
	g.assetURL = &assetURL
	g.errorDetail = nil
	g.completedAt = &now
	g.touch()
	return nil
}

// Fail records a failed attempt with the error detail. The caller refunds
// the reserved credit as part of the same unit of work.
func (g *Generation) Fail(detail string) error {
	if g.status == vo.StatusFailed {
		return nil
	}
	if !g.status.CanTransitionTo(vo.StatusFailed) {
		return fmt.Errorf("%w: cannot fail from %s", ErrInvalidState, g.status)
	}
	if detail == "" {
		detail = "unknown error"
	}
	now := time.Now().UTC()
	g.status = vo.StatusFailed
	g.errorDetail = &detail
	g.completedAt = &now
	g.touch()
	return nil
}

// PrepareRetry re-enters the queue after an explicit owner retry. The
// caller re-reserves a credit before calling this.
func (g *Generation) PrepareRetry() error {
	if !g.status.CanTransitionTo(vo.StatusPending) {
		return fmt.Errorf("%w: cannot retry from %s", ErrInvalidState, g.status)
	}
	g.status = vo.StatusPending
	g.errorDetail = nil
	g.completedAt = nil
	g.touch()
	return nil
}

// SetVisibility toggles gallery visibility.
func (g *Generation) SetVisibility(public bool) {
	if g.isPublic == public {
		return
	}
	g.isPublic = public
	g.touch()
}

// RecordView bumps the view counter.
func (g *Generation) RecordView() {
	g.viewCount++
	g.touch()
}

// RecordLike bumps the like counter.
func (g *Generation) RecordLike() {
	g.likeCount++
	g.touch()
}

// IsStuck reports whether a processing attempt has exceeded the timeout and
// should be reclaimed by the reaper.
func (g *Generation) IsStuck(now time.Time, timeout time.Duration) bool {
	if g.status != vo.StatusProcessing || g.startedAt == nil {
		return false
	}
	return now.Sub(*g.startedAt) > timeout
}

func (g *Generation) touch() {
	g.updatedAt = time.Now().UTC()
	g.version++
}
