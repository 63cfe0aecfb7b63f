package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/storefront/api"
	"github.com/storefront/backend/internal/storefront/cart"
	"github.com/storefront/backend/internal/storefront/checkout"
	"github.com/storefront/backend/internal/storefront/history"
	"github.com/storefront/backend/internal/storefront/pricing"
)

func main() {
	var (
		serverURL string
		stateDir  string
		token     string
		logLevel  string

		street     string
		city       string
		state      string
		postalCode string
		country    string
		fullName   string
		cardNumber string
		payerID    string
		paymentID  string
		orderNum   string
	)

	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Storefront API base URL")
	flag.StringVar(&stateDir, "state", defaultStateDir(), "Directory for cart and order history files")
	flag.StringVar(&token, "token", os.Getenv("STOREFRONT_TOKEN"), "Bearer token for authenticated calls")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	flag.StringVar(&street, "street", "", "Shipping street")
	flag.StringVar(&city, "city", "", "Shipping city")
	flag.StringVar(&state, "state-code", "", "Shipping state or province")
	flag.StringVar(&postalCode, "postal-code", "", "Shipping postal code")
	flag.StringVar(&country, "country", "", "Shipping country")
	flag.StringVar(&fullName, "name", "", "Recipient full name")
	flag.StringVar(&cardNumber, "card", "", "Card number for the card checkout path")
	flag.StringVar(&payerID, "payer-id", "", "Provider payer ID for capture")
	flag.StringVar(&paymentID, "payment-id", "", "Provider payment ID for capture")
	flag.StringVar(&orderNum, "order-number", "", "Order number for capture")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	client := api.NewClient(serverURL, api.WithToken(token), api.WithLogger(log))

	cartStore, err := cart.NewStore(cart.NewFileStore(filepath.Join(stateDir, "cart.json")))
	if err != nil {
		fatal("load cart: %v", err)
	}
	historyStore := history.NewStore(filepath.Join(stateDir, "orders.json"))
	recorder := history.NewRecorder(historyStore, client, log)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch command {
	case "add":
		if len(args) < 4 {
			fatal("usage: storefront add <product-id> <name> <unit-price>")
		}
		price, err := decimal.NewFromString(args[3])
		if err != nil {
			fatal("invalid price %q", args[3])
		}
		if err := cartStore.Add(cart.Item{ProductID: args[1], Name: args[2], UnitPrice: price}); err != nil {
			fatal("add item: %v", err)
		}
		printCart(cartStore, pricing.NewFetcher(client, log).Fetch(ctx))

	case "remove":
		if len(args) < 2 {
			fatal("usage: storefront remove <product-id>")
		}
		if err := cartStore.Remove(args[1]); err != nil {
			fatal("remove item: %v", err)
		}
		printCart(cartStore, pricing.NewFetcher(client, log).Fetch(ctx))

	case "qty":
		if len(args) < 3 {
			fatal("usage: storefront qty <product-id> <quantity>")
		}
		var quantity int
		if _, err := fmt.Sscanf(args[2], "%d", &quantity); err != nil {
			fatal("invalid quantity %q", args[2])
		}
		if err := cartStore.SetQuantity(args[1], quantity); err != nil {
			fatal("set quantity: %v", err)
		}
		printCart(cartStore, pricing.NewFetcher(client, log).Fetch(ctx))

	case "list":
		printCart(cartStore, pricing.NewFetcher(client, log).Fetch(ctx))

	case "clear":
		if err := cartStore.Clear(); err != nil {
			fatal("clear cart: %v", err)
		}
		fmt.Println("cart cleared")

	case "checkout":
		shipping := checkout.ShippingDetails{
			FullName:   fullName,
			Street:     street,
			City:       city,
			State:      state,
			PostalCode: postalCode,
			Country:    country,
		}
		constants := pricing.NewFetcher(client, log).Fetch(ctx)
		orch := checkout.New(cartStore, client, recorder, constants, checkout.WithLogger(log))

		method := "card"
		if len(args) > 1 {
			method = args[1]
		}
		switch method {
		case "card":
			order, err := orch.CheckoutCard(ctx, shipping, checkout.CardDetails{Number: cardNumber})
			if err != nil {
				fatal("checkout failed: %v", err)
			}
			fmt.Printf("order placed: %s total %s\n", order.Number, order.TotalAmount.StringFixed(2))

		case "paypal":
			session, err := orch.CreatePayPalOrder(ctx, shipping)
			if err != nil {
				fatal("checkout failed: %v", err)
			}
			fmt.Printf("payment session created for order %s\n", session.OrderNumber)
			fmt.Printf("payment id: %s\n", session.PaymentID)
			if session.ApprovalURL != "" {
				fmt.Printf("approve at: %s\n", session.ApprovalURL)
			}
			fmt.Println("after approval, run: storefront capture -order-number <n> -payment-id <id> -payer-id <id>")

		default:
			fatal("unknown checkout method %q (card or paypal)", method)
		}

	case "capture":
		constants := pricing.NewFetcher(client, log).Fetch(ctx)
		orch := checkout.New(cartStore, client, recorder, constants, checkout.WithLogger(log))
		order, err := orch.CapturePayPalOrder(ctx, checkout.PaymentSession{
			OrderNumber: orderNum,
			PaymentID:   paymentID,
			PayerID:     payerID,
		})
		if err != nil {
			fatal("capture failed: %v", err)
		}
		fmt.Printf("order placed: %s total %s\n", order.Number, order.TotalAmount.StringFixed(2))

	case "history":
		orders, err := historyStore.List()
		if err != nil {
			fatal("read history: %v", err)
		}
		if len(orders) == 0 {
			fmt.Println("no orders recorded")
			return
		}
		for _, o := range orders {
			fmt.Printf("%s  %s  %s  %s\n",
				o.Number,
				o.CreatedAt.Format("2006-01-02 15:04"),
				o.Status,
				o.TotalAmount.StringFixed(2))
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printCart(cartStore *cart.Store, constants pricing.Constants) {
	items := cartStore.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, it := range items {
		fmt.Printf("%-36s %-30s x%-3d %10s\n",
			it.ProductID, it.Name, it.Quantity, it.LineTotal().StringFixed(2))
	}
	b := pricing.Calculate(cartStore.Total(), constants)
	fmt.Printf("subtotal %s  tax %s  shipping %s  total %s\n",
		b.Subtotal.StringFixed(2), b.Tax.StringFixed(2),
		b.Shipping.StringFixed(2), b.Total.StringFixed(2))
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`Storefront checkout demo

Usage:
  storefront [flags] <command> [arguments]

Commands:
  add <product-id> <name> <unit-price>  Add one unit to the cart
  qty <product-id> <quantity>           Set a line quantity (0 removes)
  remove <product-id>                   Remove a line
  list                                  Show the cart with pricing
  clear                                 Empty the cart
  checkout [card|paypal]                Place the order
  capture                               Capture an approved PayPal payment
  history                               Show recorded orders

Flags:
  -server URL          API base URL (default http://localhost:8080)
  -state DIR           State directory for cart and history files
  -token TOKEN         Bearer token (or STOREFRONT_TOKEN env var)
  -street, -city, -state-code, -postal-code, -country, -name
                       Shipping details for checkout
  -card NUMBER         Card number for the card path
  -order-number, -payment-id, -payer-id
                       Capture parameters for the PayPal path`)
}
