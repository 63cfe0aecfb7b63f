package payment

import "encoding/json"

// Wire types for the PayPal REST payments API.
// Amounts travel as strings with two decimal places.

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type paypalAmountDetails struct {
	Subtotal string `json:"subtotal,omitempty"`
	Tax      string `json:"tax,omitempty"`
	Shipping string `json:"shipping,omitempty"`
}

type paypalAmount struct {
	Total    string               `json:"total"`
	Currency string               `json:"currency"`
	Details  *paypalAmountDetails `json:"details,omitempty"`
}

type paypalItem struct {
	Name     string `json:"name"`
	SKU      string `json:"sku,omitempty"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

type paypalItemList struct {
	Items []paypalItem `json:"items"`
}

type paypalTransaction struct {
	Amount      paypalAmount    `json:"amount"`
	Description string          `json:"description,omitempty"`
	InvoiceNo   string          `json:"invoice_number,omitempty"`
	ItemList    *paypalItemList `json:"item_list,omitempty"`
}

type paypalRedirectURLs struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type paypalPayer struct {
	PaymentMethod string           `json:"payment_method"`
	PayerInfo     *paypalPayerInfo `json:"payer_info,omitempty"`
}

type paypalPayerInfo struct {
	Email   string `json:"email,omitempty"`
	PayerID string `json:"payer_id,omitempty"`
}

type paypalLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type paypalCreatePaymentRequest struct {
	Intent       string              `json:"intent"`
	Payer        paypalPayer         `json:"payer"`
	Transactions []paypalTransaction `json:"transactions"`
	RedirectURLs paypalRedirectURLs  `json:"redirect_urls"`
}

type paypalSaleState struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type paypalRelatedResource struct {
	Sale *paypalSaleState `json:"sale,omitempty"`
}

type paypalTransactionResult struct {
	Amount           paypalAmount            `json:"amount"`
	RelatedResources []paypalRelatedResource `json:"related_resources,omitempty"`
}

type paypalPaymentResponse struct {
	ID           string                    `json:"id"`
	Intent       string                    `json:"intent"`
	State        string                    `json:"state"`
	Payer        *paypalPayer              `json:"payer,omitempty"`
	Transactions []paypalTransactionResult `json:"transactions,omitempty"`
	Links        []paypalLink              `json:"links,omitempty"`
}

type paypalExecuteRequest struct {
	PayerID string `json:"payer_id"`
}

type paypalErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
}

type paypalWebhookEnvelope struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Summary   string          `json:"summary"`
	Resource  json.RawMessage `json:"resource"`
}

type paypalWebhookResource struct {
	ID string `json:"id"`
}
