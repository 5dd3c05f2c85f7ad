// Package document talks to the external renderer that turns invoices into PDF documents.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/timebank/internal/invoice"
)

var _ invoice.Renderer = (*Client)(nil)

// Client posts invoice snapshots to the renderer and returns the reference it
// answers with.
type Client struct {
	url      string
	apiToken string
	client   *http.Client
}

func NewClient(url, apiToken string, timeout time.Duration) *Client {
	return &Client{
		url:      url,
		apiToken: apiToken,
		client:   &http.Client{Timeout: timeout},
	}
}

type renderRequest struct {
	InvoiceID         string             `json:"invoice_id"`
	LicenseID         string             `json:"license_id"`
	InvoiceNumber     *string            `json:"invoice_number"`
	StartDate         *string            `json:"start_date"`
	EndDate           *string            `json:"end_date"`
	TotalCredits      string             `json:"total_credits"`
	TotalExpenditures string             `json:"total_expenditures"`
	Balance           string             `json:"balance"`
	LineItems         []invoice.LineItem `json:"line_items"`
	CreatedAt         time.Time          `json:"created_at"`
}

type renderResponse struct {
	Reference string `json:"reference"`
}

func newRenderRequest(inv *invoice.MaintenanceInvoice) renderRequest {
	return renderRequest{
		InvoiceID:         inv.ID.String(),
		LicenseID:         inv.LicenseID.String(),
		InvoiceNumber:     inv.InvoiceNumber,
		StartDate:         formatDate(inv.StartDate),
		EndDate:           formatDate(inv.EndDate),
		TotalCredits:      inv.TotalCredits.StringFixed(2),
		TotalExpenditures: inv.TotalExpenditures.StringFixed(2),
		Balance:           inv.Balance.StringFixed(2),
		LineItems:         inv.LineItems,
		CreatedAt:         inv.CreatedAt,
	}
}

// Render returns the renderer's reference for the document. A reference in
// the JSON body wins over a Location header.
func (c *Client) Render(ctx context.Context, inv *invoice.MaintenanceInvoice) (string, error) {
	body, err := json.Marshal(newRenderRequest(inv))
	if err != nil {
		return "", fmt.Errorf("encoding invoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.apiToken != "" {
		req.Header.Set("Authorization", "Token "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status code %d from renderer: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		return "", fmt.Errorf("decoding renderer response: %w", err)
	}

	if out.Reference == "" {
		out.Reference = resp.Header.Get("Location")
	}

	if out.Reference == "" {
		return "", fmt.Errorf("renderer returned no document reference")
	}

	return out.Reference, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	return new(t.Format(time.DateOnly))
}
