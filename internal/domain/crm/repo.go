package crm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ConflictError is returned when an insert or update violates a unique
// constraint. Message carries the domain-level explanation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ValidationError marks input the caller can correct. Handlers map it to a
// 400; any other storage error surfaces as a 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type ProspectRepository interface {
	Create(ctx context.Context, p *Prospect) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prospect, error)
	Update(ctx context.Context, p *Prospect) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters map[string]string, sort string, limit, offset int) ([]*Prospect, int, error)
}

type CampaignRepository interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	Update(ctx context.Context, c *Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters map[string]string, sort string, limit, offset int) ([]*Campaign, int, error)
}

type TagRepository interface {
	Create(ctx context.Context, t *Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	Update(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Tag, int, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Profile, int, error)
}

type ProspectCampaignRepository interface {
	Create(ctx context.Context, pc *ProspectCampaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*ProspectCampaign, error)
	Update(ctx context.Context, pc *ProspectCampaign) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters map[string]string, limit, offset int) ([]*ProspectCampaign, int, error)
}

type ProspectTagRepository interface {
	Create(ctx context.Context, pt *ProspectTag) error
	GetByID(ctx context.Context, id uuid.UUID) (*ProspectTag, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters map[string]string, limit, offset int) ([]*ProspectTag, int, error)
}
