package crm

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	prospects         ProspectRepository
	campaigns         CampaignRepository
	tags              TagRepository
	profiles          ProfileRepository
	prospectCampaigns ProspectCampaignRepository
	prospectTags      ProspectTagRepository
}

func NewService(
	prospects ProspectRepository,
	campaigns CampaignRepository,
	tags TagRepository,
	profiles ProfileRepository,
	prospectCampaigns ProspectCampaignRepository,
	prospectTags ProspectTagRepository,
) *Service {
	return &Service{
		prospects:         prospects,
		campaigns:         campaigns,
		tags:              tags,
		profiles:          profiles,
		prospectCampaigns: prospectCampaigns,
		prospectTags:      prospectTags,
	}
}

// -- Prospect --

var validProspectStatuses = map[string]bool{
	ProspectNew: true, ProspectContacted: true, ProspectQualified: true,
	ProspectConverted: true, ProspectLost: true,
}

func (s *Service) CreateProspect(ctx context.Context, p *Prospect) error {
	if p.FirstName == "" {
		return validationErrorf("first_name is required")
	}
	if p.LastName == "" {
		return validationErrorf("last_name is required")
	}
	if p.Status == "" {
		p.Status = ProspectNew
	}
	if !validProspectStatuses[p.Status] {
		return validationErrorf("invalid prospect status: %s", p.Status)
	}
	return s.prospects.Create(ctx, p)
}

func (s *Service) GetProspect(ctx context.Context, id uuid.UUID) (*Prospect, error) {
	return s.prospects.GetByID(ctx, id)
}

func (s *Service) UpdateProspect(ctx context.Context, p *Prospect) error {
	if p.Status != "" && !validProspectStatuses[p.Status] {
		return validationErrorf("invalid prospect status: %s", p.Status)
	}
	return s.prospects.Update(ctx, p)
}

func (s *Service) DeleteProspect(ctx context.Context, id uuid.UUID) error {
	return s.prospects.Delete(ctx, id)
}

func (s *Service) ListProspects(ctx context.Context, filters map[string]string, sort string, limit, offset int) ([]*Prospect, int, error) {
	return s.prospects.List(ctx, filters, sort, limit, offset)
}

// -- Campaign --

var validChannels = map[string]bool{
	ChannelEmail: true, ChannelSMS: true, ChannelVoice: true,
}

var validCampaignStatuses = map[string]bool{
	CampaignDraft: true, CampaignActive: true, CampaignPaused: true, CampaignCompleted: true,
}

func (s *Service) CreateCampaign(ctx context.Context, c *Campaign) error {
	if c.Name == "" {
		return validationErrorf("name is required")
	}
	if c.Channel == "" {
		return validationErrorf("channel is required")
	}
	if !validChannels[c.Channel] {
		return validationErrorf("invalid campaign channel: %s", c.Channel)
	}
	if c.Status == "" {
		c.Status = CampaignDraft
	}
	if !validCampaignStatuses[c.Status] {
		return validationErrorf("invalid campaign status: %s", c.Status)
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return validationErrorf("end_date must not precede start_date")
	}
	return s.campaigns.Create(ctx, c)
}

func (s *Service) GetCampaign(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

func (s *Service) UpdateCampaign(ctx context.Context, c *Campaign) error {
	if c.Channel != "" && !validChannels[c.Channel] {
		return validationErrorf("invalid campaign channel: %s", c.Channel)
	}
	if c.Status != "" && !validCampaignStatuses[c.Status] {
		return validationErrorf("invalid campaign status: %s", c.Status)
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return validationErrorf("end_date must not precede start_date")
	}
	return s.campaigns.Update(ctx, c)
}

func (s *Service) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	return s.campaigns.Delete(ctx, id)
}

func (s *Service) ListCampaigns(ctx context.Context, filters map[string]string, sort string, limit, offset int) ([]*Campaign, int, error) {
	return s.campaigns.List(ctx, filters, sort, limit, offset)
}

// -- Tag --

func (s *Service) CreateTag(ctx context.Context, t *Tag) error {
	if t.Name == "" {
		return validationErrorf("name is required")
	}
	return s.tags.Create(ctx, t)
}

func (s *Service) GetTag(ctx context.Context, id uuid.UUID) (*Tag, error) {
	return s.tags.GetByID(ctx, id)
}

func (s *Service) UpdateTag(ctx context.Context, t *Tag) error {
	if t.Name == "" {
		return validationErrorf("name is required")
	}
	return s.tags.Update(ctx, t)
}

func (s *Service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.tags.Delete(ctx, id)
}

func (s *Service) ListTags(ctx context.Context, limit, offset int) ([]*Tag, int, error) {
	return s.tags.List(ctx, limit, offset)
}

// -- Profile --

func (s *Service) CreateProfile(ctx context.Context, p *Profile) error {
	if p.FullName == "" {
		return validationErrorf("full_name is required")
	}
	if p.Email == "" {
		return validationErrorf("email is required")
	}
	return s.profiles.Create(ctx, p)
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, p *Profile) error {
	if p.Email == "" {
		return validationErrorf("email is required")
	}
	return s.profiles.Update(ctx, p)
}

func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.profiles.Delete(ctx, id)
}

func (s *Service) ListProfiles(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	return s.profiles.List(ctx, limit, offset)
}

// -- ProspectCampaign --

func (s *Service) EnrollProspect(ctx context.Context, pc *ProspectCampaign) error {
	if pc.ProspectID == uuid.Nil {
		return validationErrorf("prospect_id is required")
	}
	if pc.CampaignID == uuid.Nil {
		return validationErrorf("campaign_id is required")
	}
	if pc.Status == "" {
		pc.Status = "enrolled"
	}
	return s.prospectCampaigns.Create(ctx, pc)
}

func (s *Service) GetEnrollment(ctx context.Context, id uuid.UUID) (*ProspectCampaign, error) {
	return s.prospectCampaigns.GetByID(ctx, id)
}

func (s *Service) UpdateEnrollment(ctx context.Context, pc *ProspectCampaign) error {
	return s.prospectCampaigns.Update(ctx, pc)
}

func (s *Service) DeleteEnrollment(ctx context.Context, id uuid.UUID) error {
	return s.prospectCampaigns.Delete(ctx, id)
}

func (s *Service) ListEnrollments(ctx context.Context, filters map[string]string, limit, offset int) ([]*ProspectCampaign, int, error) {
	return s.prospectCampaigns.List(ctx, filters, limit, offset)
}

// -- ProspectTag --

func (s *Service) AttachTag(ctx context.Context, pt *ProspectTag) error {
	if pt.ProspectID == uuid.Nil {
		return validationErrorf("prospect_id is required")
	}
	if pt.TagID == uuid.Nil {
		return validationErrorf("tag_id is required")
	}
	return s.prospectTags.Create(ctx, pt)
}

func (s *Service) GetAttachment(ctx context.Context, id uuid.UUID) (*ProspectTag, error) {
	return s.prospectTags.GetByID(ctx, id)
}

func (s *Service) DetachTag(ctx context.Context, id uuid.UUID) error {
	return s.prospectTags.Delete(ctx, id)
}

func (s *Service) ListAttachments(ctx context.Context, filters map[string]string, limit, offset int) ([]*ProspectTag, int, error) {
	return s.prospectTags.List(ctx, filters, limit, offset)
}
