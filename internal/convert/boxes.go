package convert

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/knexpress/dev-kn-system-sub001/internal/models"
)

// Dimensions divisor for volumetric weight in cm/kg air freight terms.
const volumetricDivisor = 5000

// BoxList builds the verification box list: the booking's explicit boxes
// when present, otherwise one synthesized box per listed item.
func BoxList(payload map[string]any) []models.BoxItem {
	raw := Boxes(payload)
	if len(raw) == 0 {
		raw = Items(payload)
	}

	out := make([]models.BoxItem, 0, len(raw))
	for _, m := range raw {
		b := models.BoxItem{
			Description: FirstString(m, "description", "item_description", "itemDescription", "name"),
			Quantity:    intField(m, "quantity", "qty", "count"),
		}
		if b.Quantity <= 0 {
			b.Quantity = 1
		}
		b.Length, _ = Amount(RawValue(m, "length", "l", "len"))
		b.Width, _ = Amount(RawValue(m, "width", "w"))
		b.Height, _ = Amount(RawValue(m, "height", "h"))
		b.Weight, _ = Amount(RawValue(m, "weight", "kg", "actual_weight", "actualWeight"))

		if vol, ok := Amount(RawValue(m, "volumetric", "volumetric_weight", "volumetricWeight", "vol_weight")); ok {
			b.Volumetric = vol
		} else {
			b.Volumetric = volumetricFromDims(b.Length, b.Width, b.Height)
		}

		out = append(out, b)
	}
	return out
}

func intField(m map[string]any, keys ...string) int {
	s := scalarString(RawValue(m, keys...))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func volumetricFromDims(length, width, height string) string {
	if length == "" || width == "" || height == "" {
		return ""
	}
	var l, w, h, prod, div apd.Decimal
	if _, _, err := l.SetString(length); err != nil {
		return ""
	}
	if _, _, err := w.SetString(width); err != nil {
		return ""
	}
	if _, _, err := h.SetString(height); err != nil {
		return ""
	}
	if _, err := decCtx.Mul(&prod, &l, &w); err != nil {
		return ""
	}
	if _, err := decCtx.Mul(&prod, &prod, &h); err != nil {
		return ""
	}
	div.SetInt64(volumetricDivisor)
	if _, err := decCtx.Quo(&prod, &prod, &div); err != nil {
		return ""
	}
	vol, ok := quantize2(&prod)
	if !ok {
		return ""
	}
	return vol
}
