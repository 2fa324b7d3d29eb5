package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"dskcredit/internal/config"
	"dskcredit/internal/currency"
)

const (
	ReasonAvailable       = "available"
	ReasonGatewayDisabled = "gateway_disabled"
	ReasonCurrency        = "unsupported_currency"
	ReasonPluginDisabled  = "plugin_disabled"
	ReasonBankUnavailable = "bank_unavailable"
	ReasonBankStatus      = "bank_status"
	ReasonBelowMinimum    = "below_minimum"
	ReasonAboveMaximum    = "above_maximum"
)

// zeroPercentMaxInstallments is the longest default plan that still uses
// the separate 0% minimum.
const zeroPercentMaxInstallments = 6

type Decision struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}

func unavailable(reason string) Decision {
	return Decision{Available: false, Reason: reason}
}

// AvailabilityPolicy decides whether the credit option is offered for a
// cart total. It fails closed.
type AvailabilityPolicy struct {
	bank           *BankClient
	gatewayEnabled bool
	pluginEnabled  bool
}

func NewAvailabilityPolicy(cfg *config.Config, bank *BankClient) *AvailabilityPolicy {
	return &AvailabilityPolicy{
		bank:           bank,
		gatewayEnabled: cfg.GatewayEnabled,
		pluginEnabled:  cfg.PluginEnabled,
	}
}

func (p *AvailabilityPolicy) Decide(ctx context.Context, total decimal.Decimal, code string) Decision {
	if !p.gatewayEnabled {
		return unavailable(ReasonGatewayDisabled)
	}
	if !currency.Supported(code) {
		return unavailable(ReasonCurrency)
	}
	if !p.pluginEnabled {
		return unavailable(ReasonPluginDisabled)
	}

	limits, err := p.bank.MinMax(ctx)
	if err != nil {
		slog.Debug("min/max lookup failed", "error", err)
		return unavailable(ReasonBankUnavailable)
	}

	converted := currency.Convert(total, currency.Mode(limits.ConversionMode), code)

	minAmount := limits.MinAmount
	if limits.InterestPercent.IsZero() && limits.DefaultInstallments <= zeroPercentMaxInstallments {
		minAmount = limits.MinZeroPercent
	}

	if converted.IsPositive() {
		switch {
		case limits.StatusFlag != 1:
			return unavailable(ReasonBankStatus)
		case converted.LessThan(minAmount):
			return unavailable(ReasonBelowMinimum)
		case converted.GreaterThan(limits.MaxAmount):
			return unavailable(ReasonAboveMaximum)
		}
	}

	return Decision{Available: true, Reason: ReasonAvailable}
}
