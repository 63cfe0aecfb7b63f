package api

import (
	"context"
)

// Constants returns the store configuration map from the public
// constants endpoint.
func (c *Client) Constants(ctx context.Context) (map[string]string, error) {
	var constants map[string]string
	if err := c.get(ctx, "/api/v1/constants", &constants); err != nil {
		return nil, err
	}
	return constants, nil
}

// CreateOrder places an order on the backend
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.post(ctx, "/api/v1/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders returns the caller's order history
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/api/v1/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderByNumber fetches a single order by its order number
func (c *Client) OrderByNumber(ctx context.Context, number string) (*Order, error) {
	var order Order
	if err := c.get(ctx, "/api/v1/orders/number/"+number, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreatePayPalOrder opens a provider payment session for the cart
func (c *Client) CreatePayPalOrder(ctx context.Context, req CreateOrderRequest) (*PaymentSessionResponse, error) {
	var session PaymentSessionResponse
	if err := c.post(ctx, "/api/v1/payments/paypal/create-order", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CapturePayPalOrder captures an approved provider payment
func (c *Client) CapturePayPalOrder(ctx context.Context, req CaptureOrderRequest) (*CaptureOrderResponse, error) {
	var result CaptureOrderResponse
	if err := c.post(ctx, "/api/v1/payments/paypal/capture-order", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates and stores the returned access token on the
// client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.Tokens != nil {
		c.SetToken(resp.Tokens.AccessToken)
	}
	return &resp, nil
}

// Register creates an account and stores the returned access token
func (c *Client) Register(ctx context.Context, email, name, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "name": name, "password": password}
	if err := c.post(ctx, "/api/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	if resp.Tokens != nil {
		c.SetToken(resp.Tokens.AccessToken)
	}
	return &resp, nil
}
