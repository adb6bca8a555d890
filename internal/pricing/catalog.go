package pricing

import (
	"slices"
	"strings"

	"github.com/revorbit/auto-frames/internal/models"
	"github.com/shopspring/decimal"
)

const DefaultShippingMethodID = "standard"

// Option is a selectable studio choice with its price in rupees.
type Option struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func option(id, name string, price int64) Option {
	return Option{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

var shippingMethods = []models.ShippingMethod{
	{ID: "standard", Name: "Standard (5-7 days)", Price: decimal.NewFromInt(0)},
	{ID: "express", Name: "Express (2-3 days)", Price: decimal.NewFromInt(299)},
	{ID: "premium", Name: "Premium (next day, insured)", Price: decimal.NewFromInt(999)},
}

var promoCodes = map[string]models.PromoCode{
	"FIRST10":   {Code: "FIRST10", Kind: models.PromoKindPercent, Value: decimal.NewFromInt(10)},
	"SAVE500":   {Code: "SAVE500", Kind: models.PromoKindFlat, Value: decimal.NewFromInt(500)},
	"WELCOME15": {Code: "WELCOME15", Kind: models.PromoKindPercent, Value: decimal.NewFromInt(15)},
}

var (
	frameStyles = []Option{
		option("classic", "Classic", 2499),
		option("carbon-edge", "Carbon Edge", 3299),
		option("floating-glass", "Floating Glass", 3999),
		option("shadow-box", "Shadow Box", 4999),
	}

	materials = []Option{
		option("oak", "Natural Oak", 0),
		option("walnut", "Walnut", 499),
		option("brushed-aluminium", "Brushed Aluminium", 799),
		option("carbon-fibre", "Carbon Fibre", 1299),
	}

	lightingOptions = []Option{
		option("none", "No lighting", 0),
		option("ambient-led", "Ambient LED strip", 1499),
		option("rgb-underglow", "RGB underglow", 1999),
	}

	mountingOptions = []Option{
		option("wall", "Wall hook", 0),
		option("desk-stand", "Desk stand", 499),
		option("floating-mount", "Floating wall mount", 799),
	}

	protectionOptions = []Option{
		option("uv-glass", "UV-protective glass", 599),
		option("anti-glare", "Anti-glare coating", 399),
		option("dust-seal", "Dust seal backing", 249),
	}

	backgroundOptions = []Option{
		option("plain", "Plain matte", 0),
		option("track-map", "Race track map", 699),
		option("garage-scene", "Garage scene", 899),
		option("custom-print", "Custom print", 999),
	}

	// Charged once when any engraving text is present.
	personalizationSurcharge = decimal.NewFromInt(299)
)

// StudioOptions is everything the customization studio can offer, with prices.
type StudioOptions struct {
	FrameStyles              []Option                `json:"frame_styles"`
	Materials                []Option                `json:"materials"`
	Lighting                 []Option                `json:"lighting"`
	Mounting                 []Option                `json:"mounting"`
	Protections              []Option                `json:"protections"`
	Backgrounds              []Option                `json:"backgrounds"`
	PersonalizationSurcharge decimal.Decimal         `json:"personalization_surcharge"`
	ShippingMethods          []models.ShippingMethod `json:"shipping_methods"`
}

func Options() StudioOptions {
	return StudioOptions{
		FrameStyles:              slices.Clone(frameStyles),
		Materials:                slices.Clone(materials),
		Lighting:                 slices.Clone(lightingOptions),
		Mounting:                 slices.Clone(mountingOptions),
		Protections:              slices.Clone(protectionOptions),
		Backgrounds:              slices.Clone(backgroundOptions),
		PersonalizationSurcharge: personalizationSurcharge,
		ShippingMethods:          ShippingMethods(),
	}
}

func ShippingMethods() []models.ShippingMethod {
	return slices.Clone(shippingMethods)
}

func LookupShippingMethod(id string) (models.ShippingMethod, bool) {
	for _, m := range shippingMethods {
		if m.ID == id {
			return m, true
		}
	}

	return models.ShippingMethod{}, false
}

// LookupPromo is case-insensitive and ignores surrounding whitespace.
func LookupPromo(code string) (models.PromoCode, bool) {
	promo, ok := promoCodes[NormalizePromoCode(code)]
	return promo, ok
}

func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func LookupFrameStyle(id string) (models.PricedOption, bool) {
	return lookupPriced(frameStyles, id)
}

func LookupMaterial(id string) (models.PricedOption, bool) {
	return lookupPriced(materials, id)
}

func lookupPriced(options []Option, id string) (models.PricedOption, bool) {
	o, ok := findOption(options, id)
	if !ok {
		return models.PricedOption{}, false
	}

	return models.PricedOption{ID: o.ID, Name: o.Name, Price: o.Price}, true
}

func findOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}

	return Option{}, false
}
