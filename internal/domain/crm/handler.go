package crm

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentalops/practice-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	crm := api.Group("/crm")

	crm.GET("/prospects", h.ListProspects)
	crm.GET("/prospects/:id", h.GetProspect)
	crm.POST("/prospects", h.CreateProspect)
	crm.PUT("/prospects/:id", h.UpdateProspect)
	crm.DELETE("/prospects/:id", h.DeleteProspect)

	crm.GET("/campaigns", h.ListCampaigns)
	crm.GET("/campaigns/:id", h.GetCampaign)
	crm.POST("/campaigns", h.CreateCampaign)
	crm.PUT("/campaigns/:id", h.UpdateCampaign)
	crm.DELETE("/campaigns/:id", h.DeleteCampaign)

	crm.GET("/tags", h.ListTags)
	crm.GET("/tags/:id", h.GetTag)
	crm.POST("/tags", h.CreateTag)
	crm.PUT("/tags/:id", h.UpdateTag)
	crm.DELETE("/tags/:id", h.DeleteTag)

	crm.GET("/profiles", h.ListProfiles)
	crm.GET("/profiles/:id", h.GetProfile)
	crm.POST("/profiles", h.CreateProfile)
	crm.PUT("/profiles/:id", h.UpdateProfile)
	crm.DELETE("/profiles/:id", h.DeleteProfile)

	crm.GET("/prospect-campaigns", h.ListEnrollments)
	crm.GET("/prospect-campaigns/:id", h.GetEnrollment)
	crm.POST("/prospect-campaigns", h.CreateEnrollment)
	crm.PUT("/prospect-campaigns/:id", h.UpdateEnrollment)
	crm.DELETE("/prospect-campaigns/:id", h.DeleteEnrollment)

	crm.GET("/prospect-tags", h.ListAttachments)
	crm.GET("/prospect-tags/:id", h.GetAttachment)
	crm.POST("/prospect-tags", h.CreateAttachment)
	crm.DELETE("/prospect-tags/:id", h.DeleteAttachment)
}

// writeError translates service and repository errors to HTTP errors.
// Validation failures carry their own type so that storage failures fall
// through to a 500 instead of masquerading as bad requests.
func writeError(err error) error {
	var conflict *ConflictError
	var invalid *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, conflict.Message)
	case errors.As(err, &invalid):
		return echo.NewHTTPError(http.StatusBadRequest, invalid.Message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func queryFilters(c echo.Context, keys ...string) map[string]string {
	filters := map[string]string{}
	for _, k := range keys {
		if v := c.QueryParam(k); v != "" {
			filters[k] = v
		}
	}
	return filters
}

// -- Prospect Handlers --

func (h *Handler) CreateProspect(c echo.Context) error {
	var p Prospect
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProspect(c.Request().Context(), &p); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProspect(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetProspect(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "prospect not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProspects(c echo.Context) error {
	pg := pagination.FromContext(c)
	filters := queryFilters(c, "status", "source", "search")
	items, total, err := h.svc.ListProspects(c.Request().Context(), filters, c.QueryParam("sort"), pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateProspect(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var p Prospect
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdateProspect(c.Request().Context(), &p); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProspect(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProspect(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "prospect not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Campaign Handlers --

func (h *Handler) CreateCampaign(c echo.Context) error {
	var cmp Campaign
	if err := c.Bind(&cmp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCampaign(c.Request().Context(), &cmp); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, cmp)
}

func (h *Handler) GetCampaign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cmp, err := h.svc.GetCampaign(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "campaign not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cmp)
}

func (h *Handler) ListCampaigns(c echo.Context) error {
	pg := pagination.FromContext(c)
	filters := queryFilters(c, "status", "channel")
	items, total, err := h.svc.ListCampaigns(c.Request().Context(), filters, c.QueryParam("sort"), pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateCampaign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var cmp Campaign
	if err := c.Bind(&cmp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cmp.ID = id
	if err := h.svc.UpdateCampaign(c.Request().Context(), &cmp); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusOK, cmp)
}

func (h *Handler) DeleteCampaign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCampaign(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "campaign not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Tag Handlers --

func (h *Handler) CreateTag(c echo.Context) error {
	var t Tag
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateTag(c.Request().Context(), &t); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	t, err := h.svc.GetTag(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tag not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTags(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListTags(c.Request().Context(), pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var t Tag
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	if err := h.svc.UpdateTag(c.Request().Context(), &t); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTag(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tag not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Profile Handlers --

func (h *Handler) CreateProfile(c echo.Context) error {
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProfile(c.Request().Context(), &p); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProfile(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProfiles(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListProfiles(c.Request().Context(), pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdateProfile(c.Request().Context(), &p); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProfile(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProfile(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- ProspectCampaign Handlers --

func (h *Handler) CreateEnrollment(c echo.Context) error {
	var pc ProspectCampaign
	if err := c.Bind(&pc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.EnrollProspect(c.Request().Context(), &pc); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, pc)
}

func (h *Handler) GetEnrollment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	pc, err := h.svc.GetEnrollment(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "enrollment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pc)
}

func (h *Handler) ListEnrollments(c echo.Context) error {
	pg := pagination.FromContext(c)
	filters := queryFilters(c, "prospect_id", "campaign_id")
	items, total, err := h.svc.ListEnrollments(c.Request().Context(), filters, pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateEnrollment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var pc ProspectCampaign
	if err := c.Bind(&pc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pc.ID = id
	if err := h.svc.UpdateEnrollment(c.Request().Context(), &pc); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusOK, pc)
}

func (h *Handler) DeleteEnrollment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteEnrollment(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "enrollment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- ProspectTag Handlers --

func (h *Handler) CreateAttachment(c echo.Context) error {
	var pt ProspectTag
	if err := c.Bind(&pt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AttachTag(c.Request().Context(), &pt); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, pt)
}

func (h *Handler) GetAttachment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	pt, err := h.svc.GetAttachment(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tag attachment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pt)
}

func (h *Handler) ListAttachments(c echo.Context) error {
	pg := pagination.FromContext(c)
	filters := queryFilters(c, "prospect_id", "tag_id")
	items, total, err := h.svc.ListAttachments(c.Request().Context(), filters, pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) DeleteAttachment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DetachTag(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tag attachment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
