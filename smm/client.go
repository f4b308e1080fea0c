// Package smm talks to the SMM panel that fulfills paid engagement
// orders, and interprets its duck-typed responses into a tagged
// Outcome so callers never probe raw JSON fields.
package smm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chexlabs/buzzline/policy"
)

// Status is the interpreted result of one order submission.
type Status int

const (
	// Ordered means the panel accepted the order.
	Ordered Status = iota
	// Rejected is any non-fatal refusal; the action is abandoned.
	Rejected
	// InsufficientBalance means the account cannot fund further
	// orders. Fatal for the whole process.
	InsufficientBalance
)

// Outcome is the tagged result of a submission.
type Outcome struct {
	Status  Status
	OrderID int64  // set when Ordered
	Reason  string // set when Rejected or InsufficientBalance
}

// Client submits orders to an SMM panel endpoint.
type Client struct {
	endpoint   string
	key        string
	services   map[policy.Kind]string
	httpClient *http.Client
}

// NewClient builds a panel client. services maps each engagement kind
// to the panel's numeric service ID.
func NewClient(endpoint, key string, services map[policy.Kind]string) *Client {
	return &Client{
		endpoint: endpoint,
		key:      key,
		services: services,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type orderRequest struct {
	Key      string `json:"key"`
	Action   string `json:"action"`
	Service  string `json:"service"`
	Link     string `json:"link"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	// Order arrives as a bare number from most panels but as a
	// quoted string from some, so decode it loosely.
	Order json.RawMessage `json:"order"`
	Error string          `json:"error"`
}

// Submit places one order and returns the interpreted outcome. It
// never returns an error value: every failure mode, including
// transport errors, collapses into the Outcome taxonomy so the caller
// has exactly three cases to handle.
func (c *Client) Submit(ctx context.Context, kind policy.Kind, link string, quantity int) Outcome {
	serviceID, ok := c.services[kind]
	if !ok {
		return Outcome{Status: Rejected, Reason: fmt.Sprintf("no service ID configured for %s", kind)}
	}

	body, err := json.Marshal(orderRequest{
		Key:      c.key,
		Action:   "add",
		Service:  serviceID,
		Link:     link,
		Quantity: quantity,
	})
	if err != nil {
		return Outcome{Status: Rejected, Reason: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Outcome{Status: Rejected, Reason: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{Status: Rejected, Reason: fmt.Sprintf("execute request: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{Status: Rejected, Reason: fmt.Sprintf("read response: %v", err)}
	}

	// Error bodies on non-2xx responses still carry the panel's
	// {error: ...} shape, and the balance signal can arrive either
	// way, so interpretation is status-code independent.
	return interpret(raw)
}

// interpret is the single place panel responses are decoded. The one
// distinguished fatal signal is an error string containing
// "insufficient balance", case-insensitive.
func interpret(raw []byte) Outcome {
	var parsed orderResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		reason := strings.TrimSpace(string(raw))
		if isBalanceError(reason) {
			return Outcome{Status: InsufficientBalance, Reason: reason}
		}
		return Outcome{Status: Rejected, Reason: fmt.Sprintf("malformed response: %s", reason)}
	}

	if len(parsed.Order) > 0 && string(parsed.Order) != "null" {
		s := string(parsed.Order)
		if strings.HasPrefix(s, `"`) {
			if err := json.Unmarshal(parsed.Order, &s); err != nil {
				return Outcome{Status: Rejected, Reason: fmt.Sprintf("bad order id %s", parsed.Order)}
			}
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Outcome{Status: Rejected, Reason: fmt.Sprintf("bad order id %s", parsed.Order)}
		}
		return Outcome{Status: Ordered, OrderID: id}
	}

	if isBalanceError(parsed.Error) {
		return Outcome{Status: InsufficientBalance, Reason: parsed.Error}
	}
	if parsed.Error != "" {
		return Outcome{Status: Rejected, Reason: parsed.Error}
	}
	return Outcome{Status: Rejected, Reason: "response has neither order nor error"}
}

func isBalanceError(s string) bool {
	return strings.Contains(strings.ToLower(s), "insufficient balance")
}
