package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	dash := api.Group("/dashboard")
	dash.GET("/revenue", h.Revenue)
	dash.GET("/daily-huddle", h.DailyHuddle)
	dash.GET("/monthly-report", h.MonthlyReport)
	dash.GET("/active-patients", h.ActivePatients)
	dash.GET("/treatment-success", h.TreatmentSuccess)
	dash.GET("/patient-satisfaction", h.PatientSatisfaction)
}

// serviceError forwards the upstream status code for provider failures and
// falls back to 500 for anything else.
func serviceError(err error) error {
	var ue *pms.UpstreamError
	if errors.As(err, &ue) {
		return echo.NewHTTPError(ue.StatusCode, ue.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Revenue(c echo.Context) error {
	timeframe := c.QueryParam("timeframe")
	switch timeframe {
	case "":
		timeframe = TimeframeMonthly
	case TimeframeDaily, TimeframeMonthly, TimeframeQuarterly:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid timeframe (want daily, monthly or quarterly)")
	}

	year := h.now().Year()
	if y := c.QueryParam("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil || parsed < 2000 || parsed > 2100 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = parsed
	}

	report, err := h.svc.Revenue(c.Request().Context(), timeframe, year)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) DailyHuddle(c echo.Context) error {
	date := h.now()
	if d := c.QueryParam("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date (want YYYY-MM-DD)")
		}
		date = parsed
	}

	report, err := h.svc.DailyHuddle(c.Request().Context(), date)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) MonthlyReport(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 2000 || year > 2100 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or missing year")
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or missing month")
	}

	report, err := h.svc.Monthly(c.Request().Context(), year, month)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) periodFromQuery(c echo.Context) (PeriodBounds, error) {
	period, err := ParsePeriod(c.QueryParam("period"), h.now())
	if err != nil {
		return PeriodBounds{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return period, nil
}

func (h *Handler) ActivePatients(c echo.Context) error {
	period, err := h.periodFromQuery(c)
	if err != nil {
		return err
	}
	report, svcErr := h.svc.ActivePatients(c.Request().Context(), period)
	if svcErr != nil {
		return serviceError(svcErr)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) TreatmentSuccess(c echo.Context) error {
	period, err := h.periodFromQuery(c)
	if err != nil {
		return err
	}
	report, svcErr := h.svc.TreatmentSuccess(c.Request().Context(), period)
	if svcErr != nil {
		return serviceError(svcErr)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) PatientSatisfaction(c echo.Context) error {
	period, err := h.periodFromQuery(c)
	if err != nil {
		return err
	}
	report, svcErr := h.svc.PatientSatisfaction(c.Request().Context(), period)
	if svcErr != nil {
		return serviceError(svcErr)
	}
	return c.JSON(http.StatusOK, report)
}
