package payments

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	config "github.com/etuitionbd/etuition_backend/configs"
)

// CheckoutSession mirrors the fields of a Stripe Checkout session the
// settlement handler needs: who paid, whether they paid, the processor's
// transaction id, and the correlation metadata we embedded at creation.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	CustomerEmail string            `json:"customer_email"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent string            `json:"payment_intent"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

type CheckoutParams struct {
	AmountCents   int64
	Currency      string
	CustomerEmail string
	ProductName   string
	Description   string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

func apiBase() string {
	base := config.Config("STRIPE_API_BASE_URL")
	if base == "" {
		base = "https://api.stripe.com"
	}
	return base
}

func doStripeRequest(method, path string, form url.Values) (*CheckoutSession, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", apiBase(), path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", config.Config("STRIPE_SECRET")))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stripe request failed: %s", string(respBody))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateCheckoutSession mints a hosted checkout session scoped to the agreed
// salary, carrying the tuition correlation ids as opaque metadata.
func CreateCheckoutSession(params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", params.CustomerEmail)
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][product_data][description]", params.Description)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	return doStripeRequest("POST", "/v1/checkout/sessions", form)
}

// RetrieveCheckoutSession fetches the settlement state of a session.
func RetrieveCheckoutSession(sessionID string) (*CheckoutSession, error) {
	return doStripeRequest("GET", fmt.Sprintf("/v1/checkout/sessions/%s", url.PathEscape(sessionID)), nil)
}
