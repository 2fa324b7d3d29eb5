package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"dskcredit/internal/config"
	"dskcredit/internal/currency"
	"dskcredit/internal/metrics"
	"dskcredit/internal/model"
	"dskcredit/internal/notify"
)

var (
	ErrInvalidApplication   = errors.New("invalid credit application")
	ErrEncryption           = errors.New("credit application encryption failed")
	ErrDuplicateApplication = errors.New("credit application already exists")
)

const (
	SubmitSubmitted     = "submitted"
	SubmitPendingReview = "pending_manual_review"
)

const (
	noticePendingReview = "There is a temporary problem communicating with DSK Credit. Your application has been sent to the bank by e-mail; the bank will contact you to continue the credit procedure."
	noticeDuplicate     = "A DSK Credit application already exists for your order number: %d"
)

// DuplicateError is returned when the bank answers without an order id,
// meaning it already holds an application for this merchant order. The
// message is shown to the shopper.
type DuplicateError struct {
	OrderID int64
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf(noticeDuplicate, e.OrderID)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateApplication }

// PayloadEncoder seals the application the bank decrypts.
type PayloadEncoder interface {
	Encode(v any) (string, error)
}

type CheckoutRequest struct {
	OrderID         int64            `json:"order_id"`
	Currency        string           `json:"currency"`
	Total           decimal.Decimal  `json:"total"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Phone           string           `json:"phone"`
	Email           string           `json:"email"`
	BillingAddress  model.Address    `json:"billing_address"`
	ShippingAddress model.Address    `json:"shipping_address"`
	Items           []model.LineItem `json:"items"`
	Mobile          bool             `json:"-"`
}

type SubmitResult struct {
	Outcome     string `json:"outcome"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Notice      string `json:"notice,omitempty"`
}

// CheckoutService submits credit applications to the bank and records
// them locally.
type CheckoutService struct {
	bank     *BankClient
	encoder  PayloadEncoder
	orders   *OrderStore
	notifier notify.Notifier
	opsEmail string
}

func NewCheckoutService(cfg *config.Config, bank *BankClient, enc PayloadEncoder, orders *OrderStore, n notify.Notifier) *CheckoutService {
	return &CheckoutService{
		bank:     bank,
		encoder:  enc,
		orders:   orders,
		notifier: n,
		opsEmail: cfg.OpsEmail,
	}
}

func (s *CheckoutService) Submit(ctx context.Context, req CheckoutRequest) (*SubmitResult, error) {
	if req.OrderID <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive", ErrInvalidApplication)
	}
	if !currency.Supported(req.Currency) {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidApplication, req.Currency)
	}

	mode := currency.ModeNone
	if eur, err := s.bank.EurMode(ctx); err != nil {
		slog.Debug("eur mode lookup failed, sending unconverted amounts", "order_id", req.OrderID, "error", err)
	} else {
		mode = currency.Mode(eur.ConversionMode)
	}

	payload := s.application(req, mode).Payload()

	sealed, err := s.encoder.Encode(payload)
	if err != nil {
		metrics.ApplicationsTotal.WithLabelValues("encryption_failed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	res, err := s.bank.AddOrder(ctx, sealed)
	if err != nil {
		return s.escalate(ctx, req.OrderID, payload, err)
	}

	if res.OrderID == 0 {
		metrics.ApplicationsTotal.WithLabelValues("duplicate").Inc()
		return nil, &DuplicateError{OrderID: req.OrderID}
	}

	if err := s.orders.Create(ctx, req.OrderID, model.StatusCreated); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}

	metrics.ApplicationsTotal.WithLabelValues(SubmitSubmitted).Inc()
	slog.Info("credit application submitted", "order_id", req.OrderID, "bank_order_id", int64(res.OrderID))

	return &SubmitResult{
		Outcome:     SubmitSubmitted,
		RedirectURL: s.redirectURL(int64(res.OrderID), req.Mobile),
	}, nil
}

func (s *CheckoutService) application(req CheckoutRequest, mode currency.Mode) model.OrderApplication {
	items := make([]model.LineItem, len(req.Items))
	for i, item := range req.Items {
		item.UnitPrice = currency.Convert(item.UnitPrice, mode, req.Currency)
		items[i] = item
	}

	client := model.ClientDesktop
	if req.Mobile {
		client = model.ClientMobile
	}

	return model.OrderApplication{
		MerchantCID:     s.bank.CID(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Email:           req.Email,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		LineItems:       items,
		TotalPrice:      currency.Convert(req.Total, mode, req.Currency),
		CurrencyFlag:    currency.Flag(mode),
		MerchantOrderID: req.OrderID,
		ClientType:      client,
		Version:         config.Version,
	}
}

// escalate records the order and hands the plain application to the
// operations mailbox when the bank could not be reached at all.
func (s *CheckoutService) escalate(ctx context.Context, orderID int64, payload model.ApplicationPayload, cause error) (*SubmitResult, error) {
	slog.Warn("bank unreachable during submission", "order_id", orderID, "error", cause)

	if err := s.orders.Create(ctx, orderID, model.StatusCreated); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}

	body, err := json.MarshalIndent(payload, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	err = s.notifier.NotifyCommunicationFailure(ctx, notify.CommunicationFailure{
		OrderID:   orderID,
		Recipient: s.opsEmail,
		Subject:   notify.SubjectCommunicationFailure,
		Body:      string(body),
	})
	if err != nil {
		slog.Error("failed to notify operations", "order_id", orderID, "error", err)
	}

	metrics.ApplicationsTotal.WithLabelValues(SubmitPendingReview).Inc()
	return &SubmitResult{Outcome: SubmitPendingReview, Notice: noticePendingReview}, nil
}

func (s *CheckoutService) redirectURL(bankOrderID int64, mobile bool) string {
	page := "/application_step1.php"
	if mobile {
		page = "/applicationm_step1.php"
	}
	return s.bank.BaseURL() + page + "?oid=" + strconv.FormatInt(bankOrderID, 10) + "&cid=" + url.QueryEscape(s.bank.CID())
}
