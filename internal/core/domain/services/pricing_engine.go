package services

import (
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultDeliveryFee is the flat add-on for Delivery orders when none is configured.
const DefaultDeliveryFee = "50.00"

var (
	// ErrInvalidPrice is returned for a base price that is not greater than zero.
	ErrInvalidPrice = errs.NewValueIsInvalidError("basePrice must be greater than 0")

	markupRate      = decimal.RequireFromString("1.10")
	premiumDiscount = decimal.RequireFromString("0.90")
)

// Quote is the frozen price of one unit of a product for one buyer.
type Quote struct {
	PriceEach     kernel.Money
	CommissionFee kernel.Money
}

// PricingEngine computes prices from a product's base price.
//
// Rounding is a ceiling to whole cents applied once, at the unit price; quantities
// and totals are exact multiples of already-rounded unit prices. The engine holds
// no mutable state and is safe for concurrent use.
type PricingEngine struct {
	deliveryFee kernel.Money
}

// NewPricingEngine creates an engine that charges deliveryFee on Delivery orders.
//
// Example:
//
//	engine := NewPricingEngine(kernel.MustMoney("50.00"))
//	price, _ := engine.MarkupPrice(kernel.MustMoney("100.00")) // 110.00
func NewPricingEngine(deliveryFee kernel.Money) PricingEngine {
	return PricingEngine{deliveryFee: deliveryFee}
}

// MarkupPrice is ceil(base × 1.10).
func (p PricingEngine) MarkupPrice(base kernel.Money) (kernel.Money, error) {
	return p.scale(base, markupRate)
}

// PremiumPrice is ceil(base × 1.10 × 0.90): the markup price less 10% for subscribers.
func (p PricingEngine) PremiumPrice(base kernel.Money) (kernel.Money, error) {
	return p.scale(base, markupRate.Mul(premiumDiscount))
}

// CommissionFee is the platform's take per unit, MarkupPrice(base) - base. It does not
// shrink for premium buyers.
func (p PricingEngine) CommissionFee(base kernel.Money) (kernel.Money, error) {
	markup, err := p.MarkupPrice(base)
	if err != nil {
		return kernel.Money{}, err
	}
	return markup.Sub(base)
}

// UnitPrice picks the premium or markup price for the buyer.
func (p PricingEngine) UnitPrice(base kernel.Money, isPremium bool) (kernel.Money, error) {
	if isPremium {
		return p.PremiumPrice(base)
	}
	return p.MarkupPrice(base)
}

// Quote prices one unit for a buyer.
func (p PricingEngine) Quote(base kernel.Money, isPremium bool) (Quote, error) {
	price, err := p.UnitPrice(base, isPremium)
	if err != nil {
		return Quote{}, err
	}
	commission, err := p.CommissionFee(base)
	if err != nil {
		return Quote{}, err
	}
	return Quote{PriceEach: price, CommissionFee: commission}, nil
}

// DeliveryFee is the configured flat fee for Delivery and zero for Pickup.
func (p PricingEngine) DeliveryFee(method order.FulfillmentMethod) kernel.Money {
	if method == order.Delivery {
		return p.deliveryFee
	}
	return kernel.ZeroMoney
}

// LineTotal is unit × quantity.
func (p PricingEngine) LineTotal(unit kernel.Money, quantity int) kernel.Money {
	return unit.Times(quantity)
}

func (p PricingEngine) scale(base kernel.Money, factor decimal.Decimal) (kernel.Money, error) {
	if !base.IsPositive() {
		return kernel.Money{}, ErrInvalidPrice
	}
	scaled, err := base.Scale(factor)
	if err != nil {
		return kernel.Money{}, err
	}
	return scaled.CeilCents(), nil
}
