package crm

import (
	"time"

	"github.com/google/uuid"
)

// Prospect statuses track the outreach funnel.
const (
	ProspectNew       = "new"
	ProspectContacted = "contacted"
	ProspectQualified = "qualified"
	ProspectConverted = "converted"
	ProspectLost      = "lost"
)

// Campaign channels and statuses.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelVoice = "voice"

	CampaignDraft     = "draft"
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignCompleted = "completed"
)

// Prospect maps to the prospects table.
type Prospect struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Status    string    `db:"status" json:"status"`
	Source    *string   `db:"source" json:"source,omitempty"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Campaign maps to the campaigns table.
type Campaign struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Channel     string     `db:"channel" json:"channel"`
	Status      string     `db:"status" json:"status"`
	Description *string    `db:"description" json:"description,omitempty"`
	StartDate   *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Tag maps to the tags table. Names are unique.
type Tag struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     *string   `db:"color" json:"color,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Profile maps to the profiles table (staff members of the practice).
type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Role      *string   `db:"role" json:"role,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProspectCampaign enrolls a prospect in a campaign. The
// (prospect_id, campaign_id) pair is unique.
type ProspectCampaign struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProspectID uuid.UUID `db:"prospect_id" json:"prospect_id"`
	CampaignID uuid.UUID `db:"campaign_id" json:"campaign_id"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ProspectTag attaches a tag to a prospect. The (prospect_id, tag_id)
// pair is unique.
type ProspectTag struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProspectID uuid.UUID `db:"prospect_id" json:"prospect_id"`
	TagID      uuid.UUID `db:"tag_id" json:"tag_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
