// Package barcode resolves product barcodes against Open Food Facts and turns the answer
// into a pantry item prefill.
package barcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pantrypal"
	"pantrypal/pantry"
)

// User-facing messages.
const (
	MsgBlankBarcode     = "Please enter a barcode number"
	MsgNotFound         = "Product not found in database. Please add details manually."
	MsgConnectionFailed = "Error connecting to product database. Check your internet connection and try again."
)

const unknownProduct = "Unknown Product"

var ErrBlankBarcode = errors.New("barcode: blank code")

// LookupError wraps a transport or decoding failure. Its message is the user-facing one.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string { return MsgConnectionFailed }
func (e *LookupError) Unwrap() error { return e.Err }

// Product is the outcome of a lookup. Prefill is always usable, even when nothing was found.
type Product struct {
	Barcode  string             `json:"barcode"`
	Found    bool               `json:"found"`
	Name     string             `json:"name"`
	Brand    string             `json:"brand,omitempty"`
	Category pantrypal.Category `json:"category"`
	ImageURL string             `json:"imageUrl,omitempty"`
	Message  string             `json:"message,omitempty"`
	Prefill  pantry.ItemInput   `json:"prefill"`
}

type Client struct {
	baseURL    string
	httpClient pantrypal.HTTPClient
	tracer     trace.Tracer
	now        func() time.Time
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
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		tracer:     otel.Tracer(pantrypal.TracerNameBarcode),
		now:        time.Now,
	}
}

type wireProduct struct {
	ProductName    string   `json:"product_name"`
	Brands         string   `json:"brands"`
	CategoriesTags []string `json:"categories_tags"`
	ImageURL       string   `json:"image_url"`
}

type wireResponse struct {
	Status  int         `json:"status"`
	Product wireProduct `json:"product"`
}

// Lookup resolves code. A product missing from the database is not an error: the result has
// Found=false and a blank prefill. Transport failures return the blank prefill together with
// a *LookupError.
func (c *Client) Lookup(ctx context.Context, code string) (Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Product{Message: MsgBlankBarcode}, ErrBlankBarcode
	}

	ctx, span := c.tracer.Start(ctx, "barcode.Client.Lookup", trace.WithAttributes(attribute.String("barcode", code)))
	defer span.End()

	wr, err := c.fetch(ctx, code)
	if err != nil {
		span.SetStatus(codes.Error, "lookup failed")
		span.RecordError(err)
		slog.Warn("BARCODE: Lookup failed", "barcode", code, "error", err)
		p := c.blank(code)
		p.Message = MsgConnectionFailed
		return p, &LookupError{Err: err}
	}

	if wr.Status != 1 {
		slog.Info("BARCODE: Product not found", "barcode", code)
		p := c.blank(code)
		p.Message = MsgNotFound
		return p, nil
	}

	name := strings.TrimSpace(wr.Product.ProductName)
	if name == "" {
		name = unknownProduct
	}
	p := c.blank(code)
	p.Found = true
	p.Name = name
	p.Brand = strings.TrimSpace(wr.Product.Brands)
	p.Category = CategoryFromTags(wr.Product.CategoriesTags)
	p.ImageURL = wr.Product.ImageURL
	p.Prefill.Name = name
	p.Prefill.Category = string(p.Category)

	span.SetAttributes(attribute.Bool("found", true), attribute.String("category", string(p.Category)))
	slog.Info("BARCODE: Product found", "barcode", code, "name", name, "category", p.Category)
	return p, nil
}

func (c *Client) fetch(ctx context.Context, code string) (wireResponse, error) {
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return wireResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pantrypal/0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wireResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return wireResponse{}, fmt.Errorf("read response: %w", err)
	}
	// Unknown codes come back as 404 with a status 0 body.
	if resp.StatusCode == http.StatusNotFound {
		return wireResponse{Status: 0}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return wireResponse{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return wireResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return wr, nil
}

func (c *Client) blank(code string) Product {
	return Product{
		Barcode:  code,
		Category: pantrypal.CategoryOther,
		Prefill: pantry.ItemInput{
			Category:     string(pantrypal.CategoryOther),
			Quantity:     pantry.NumberOf(1),
			Unit:         string(pantry.UnitCount),
			PurchaseDate: c.now().Format(pantry.DateLayout),
			Barcode:      code,
		},
	}
}
