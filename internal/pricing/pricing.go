// Package pricing derives order totals from a cart or a custom design.
// Every function here is pure: the same inputs always produce the same totals.
package pricing

import (
	"errors"
	"fmt"

	"github.com/revorbit/auto-frames/internal/models"
	"github.com/shopspring/decimal"
)

// ErrIncompleteData is returned when an input needed for pricing is missing or malformed.
var ErrIncompleteData = errors.New("incomplete pricing data")

var (
	// TaxRate is the flat GST rate applied to the subtotal.
	TaxRate = decimal.New(18, -2)

	hundred = decimal.NewFromInt(100)
)

// OrderSource is either a CartSource or a DesignSource, never both.
type OrderSource interface {
	isOrderSource()
}

type CartSource struct {
	Lines []models.CartLine
}

type DesignSource struct {
	Config models.DesignConfiguration
}

func (CartSource) isOrderSource()   {}
func (DesignSource) isOrderSource() {}

func incomplete(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIncompleteData, fmt.Sprintf(format, args...))
}

// ComputeTotals prices the source with the selected shipping tier and an optional promo.
// A nil promo means no discount.
func ComputeTotals(source OrderSource, method models.ShippingMethod, promo *models.PromoCode) (models.OrderTotals, error) {
	subtotal, err := Subtotal(source)
	if err != nil {
		return models.OrderTotals{}, err
	}

	if method.ID == "" {
		return models.OrderTotals{}, incomplete("shipping method is not selected")
	}
	if method.Price.IsNegative() {
		return models.OrderTotals{}, incomplete("shipping method %q has a negative price", method.ID)
	}

	discount, err := Discount(subtotal, promo)
	if err != nil {
		return models.OrderTotals{}, err
	}

	taxes := Taxes(subtotal)

	return models.OrderTotals{
		Subtotal:     subtotal,
		ShippingCost: method.Price,
		Taxes:        taxes,
		Discount:     discount,
		Total:        subtotal.Add(method.Price).Add(taxes).Sub(discount),
	}, nil
}

func Subtotal(source OrderSource) (decimal.Decimal, error) {
	switch src := source.(type) {
	case CartSource:
		return cartSubtotal(src.Lines)
	case DesignSource:
		return DesignPrice(src.Config)
	case nil:
		return decimal.Zero, incomplete("order source is missing")
	default:
		return decimal.Zero, incomplete("unsupported order source %T", source)
	}
}

func cartSubtotal(lines []models.CartLine) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, incomplete("cart has no lines")
	}

	subtotal := decimal.Zero
	for i, line := range lines {
		if line.Quantity < 1 {
			return decimal.Zero, incomplete("line %d (%s) has quantity %d", i, line.ProductID, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, incomplete("line %d (%s) has a negative unit price", i, line.ProductID)
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return subtotal, nil
}

// DesignPrice is the single-unit price of a custom design: frame + material +
// personalization surcharge + feature surcharges.
func DesignPrice(cfg models.DesignConfiguration) (decimal.Decimal, error) {
	if cfg.FrameStyle.ID == "" {
		return decimal.Zero, incomplete("design has no frame style")
	}
	if cfg.Material.ID == "" {
		return decimal.Zero, incomplete("design has no material")
	}
	if cfg.FrameStyle.Price.IsNegative() || cfg.Material.Price.IsNegative() {
		return decimal.Zero, incomplete("design has a negative base price")
	}

	price := cfg.FrameStyle.Price.Add(cfg.Material.Price)

	if cfg.Personalization.Text != "" {
		price = price.Add(personalizationSurcharge)
	}

	features, err := FeatureSurcharge(cfg.Features)
	if err != nil {
		return decimal.Zero, err
	}

	return price.Add(features), nil
}

// FeatureSurcharge sums the surcharges of the selected features. Empty selections cost nothing.
func FeatureSurcharge(f models.DesignFeatures) (decimal.Decimal, error) {
	total := decimal.Zero

	singles := []struct {
		kind    string
		id      string
		options []Option
	}{
		{"lighting", f.Lighting, lightingOptions},
		{"mounting", f.Mounting, mountingOptions},
		{"background", f.Background, backgroundOptions},
	}

	for _, s := range singles {
		if s.id == "" {
			continue
		}
		o, ok := findOption(s.options, s.id)
		if !ok {
			return decimal.Zero, incomplete("unknown %s option %q", s.kind, s.id)
		}
		total = total.Add(o.Price)
	}

	seen := make(map[string]struct{}, len(f.Protections))
	for _, id := range f.Protections {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		o, ok := findOption(protectionOptions, id)
		if !ok {
			return decimal.Zero, incomplete("unknown protection option %q", id)
		}
		total = total.Add(o.Price)
	}

	return total, nil
}

// Taxes rounds half away from zero to whole rupees.
func Taxes(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(0)
}

// Discount never exceeds the subtotal, so totals cannot go negative.
func Discount(subtotal decimal.Decimal, promo *models.PromoCode) (decimal.Decimal, error) {
	if promo == nil {
		return decimal.Zero, nil
	}

	if promo.Value.IsNegative() {
		return decimal.Zero, incomplete("promo %q has a negative value", promo.Code)
	}

	var discount decimal.Decimal
	switch promo.Kind {
	case models.PromoKindPercent:
		discount = subtotal.Mul(promo.Value).Div(hundred).Round(0)
	case models.PromoKindFlat:
		discount = promo.Value
	default:
		return decimal.Zero, incomplete("promo %q has unknown kind %q", promo.Code, promo.Kind)
	}

	return decimal.Min(discount, subtotal), nil
}

// ToMinorUnits converts rupees to paise for the payment gateway.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
