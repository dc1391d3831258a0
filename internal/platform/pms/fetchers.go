package pms

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// PageLimit caps every collection fetch at a single page. Reports treat that
// page as the period's data; periods busier than PageLimit records per
// resource are sampled, not complete.
const PageLimit = 100

const dateLayout = "2006-01-02"

type listEnvelope[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total_count"`
}

func fetchList[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("limit", strconv.Itoa(PageLimit))

	var env listEnvelope[T]
	if err := c.Get(ctx, path, params, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

func rangeParams(from, to time.Time) url.Values {
	params := url.Values{}
	params.Set("startdate", from.Format(dateLayout))
	params.Set("enddate", to.Format(dateLayout))
	return params
}

// Appointments fetches appointments starting within [from, to].
func (c *Client) Appointments(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return fetchList[Appointment](ctx, c, "/appointments", rangeParams(from, to))
}

// Patients fetches patients created within [from, to].
func (c *Client) Patients(ctx context.Context, from, to time.Time) ([]Patient, error) {
	return fetchList[Patient](ctx, c, "/patients", rangeParams(from, to))
}

// Procedures fetches procedures updated within [from, to].
func (c *Client) Procedures(ctx context.Context, from, to time.Time) ([]Procedure, error) {
	return fetchList[Procedure](ctx, c, "/procedures", rangeParams(from, to))
}

// Payments fetches payments recorded within [from, to].
func (c *Client) Payments(ctx context.Context, from, to time.Time) ([]Payment, error) {
	return fetchList[Payment](ctx, c, "/payments", rangeParams(from, to))
}

// Providers fetches the practice's clinicians. Not date-scoped.
func (c *Client) Providers(ctx context.Context) ([]Provider, error) {
	return fetchList[Provider](ctx, c, "/providers", nil)
}

// Documents fetches patient documents created within [from, to].
func (c *Client) Documents(ctx context.Context, from, to time.Time) ([]Document, error) {
	return fetchList[Document](ctx, c, "/documents", rangeParams(from, to))
}

// Probe issues a lightweight authenticated request, used by the health
// endpoint with a short deadline.
func (c *Client) Probe(ctx context.Context) error {
	params := url.Values{}
	params.Set("limit", "1")
	var env listEnvelope[Provider]
	return c.Get(ctx, "/providers", params, &env)
}
