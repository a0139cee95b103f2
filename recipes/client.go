package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"pantrypal"
)

// StatusError reports a non-2xx answer from the recipe service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status: %d", e.StatusCode)
}

// Client is a minimal Spoonacular client.
type Client struct {
	baseURL    string
	httpClient pantrypal.HTTPClient
	tracer     trace.Tracer
	requests   metric.Int64Counter
	failures   metric.Int64Counter
}

type ClientOpts struct {
	BaseURL    string
	HTTPClient pantrypal.HTTPClient
}

func NewClient(opts ClientOpts) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	meter := otel.Meter(pantrypal.TracerNameRecipes)
	requests, _ := meter.Int64Counter("recipe_api_requests_total",
		metric.WithDescription("Total number of requests sent to the recipe service"))
	failures, _ := meter.Int64Counter("recipe_api_failures_total",
		metric.WithDescription("Total number of recipe service requests that failed"))

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		tracer:     otel.Tracer(pantrypal.TracerNameRecipes),
		requests:   requests,
		failures:   failures,
	}
}

// FindByIngredients searches recipes that use the given ingredients.
func (c *Client) FindByIngredients(ctx context.Context, apiKey string, p FindParams) ([]MatchResult, error) {
	q := url.Values{}
	q.Set("apiKey", apiKey)
	q.Set("ingredients", strings.Join(p.Ingredients, ","))
	q.Set("number", strconv.Itoa(p.Number))
	q.Set("ranking", strconv.Itoa(p.Ranking))
	q.Set("ignorePantry", strconv.FormatBool(p.IgnorePantry))

	var out []MatchResult
	if err := c.get(ctx, "findByIngredients", "/recipes/findByIngredients", q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []MatchResult{}
	}
	return out, nil
}

// Information fetches the full record of one recipe.
func (c *Client) Information(ctx context.Context, apiKey string, id int) (Details, error) {
	q := url.Values{}
	q.Set("apiKey", apiKey)

	var out Details
	if err := c.get(ctx, "information", fmt.Sprintf("/recipes/%d/information", id), q, &out); err != nil {
		return Details{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	ctx, span := c.tracer.Start(ctx, "recipes.Client."+op)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("operation", op))
	c.requests.Add(ctx, 1, attrs)

	err := c.do(ctx, path, q, out)
	if err != nil {
		c.failures.Add(ctx, 1, attrs)
		span.SetStatus(codes.Error, "recipe request failed")
		span.RecordError(err)
		slog.Warn("RECIPES: Request failed", "operation", op, "error", err)
	}
	return err
}

func (c *Client) do(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key, so it must not reach the error text.
		var ue *url.Error
		if errors.As(err, &ue) {
			return fmt.Errorf("%s request failed: %w", ue.Op, ue.Err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
