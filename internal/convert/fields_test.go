package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenderContactDirectName(t *testing.T) {
	c := SenderContact(map[string]any{
		"customer_name":  "Maria Santos",
		"customer_phone": "+639171234567",
	})
	assert.Equal(t, "Maria Santos", c.Name)
	assert.Equal(t, "+639171234567", c.Phone)
}

func TestSenderContactNestedObject(t *testing.T) {
	c := SenderContact(map[string]any{
		"sender": map[string]any{
			"full_name":      "Jose Rizal",
			"contact_number": "0501234567",
			"address":        "Al Karama, Dubai",
		},
	})
	assert.Equal(t, "Jose Rizal", c.Name)
	assert.Equal(t, "0501234567", c.Phone)
	assert.Equal(t, "Al Karama, Dubai", c.Address)
}

func TestSenderContactFirstLastConcatenation(t *testing.T) {
	c := SenderContact(map[string]any{
		"sender": map[string]any{
			"first_name": "Ana",
			"last_name":  "Reyes",
		},
	})
	assert.Equal(t, "Ana Reyes", c.Name)
}

func TestSenderContactConcatRequiresBothParts(t *testing.T) {
	c := SenderContact(map[string]any{
		"sender": map[string]any{"first_name": "Ana"},
	})
	assert.Equal(t, "", c.Name)
}

func TestContactPriorityOrder(t *testing.T) {
	// a direct full-name candidate beats the nested one and the name parts
	c := SenderContact(map[string]any{
		"customer_name": "Direct Winner",
		"sender": map[string]any{
			"full_name":  "Nested Loser",
			"first_name": "Part",
			"last_name":  "Loser",
		},
	})
	assert.Equal(t, "Direct Winner", c.Name)
}

func TestReceiverContactConsigneeFallback(t *testing.T) {
	c := ReceiverContact(map[string]any{
		"consignee": map[string]any{
			"full_name":        "Ahmed Hassan",
			"contact_number":   971501112222,
			"complete_address": "Deira, Dubai",
		},
	})
	assert.Equal(t, "Ahmed Hassan", c.Name)
	assert.Equal(t, "971501112222", c.Phone)
	assert.Equal(t, "Deira, Dubai", c.Address)
}

func TestFirstStringSkipsMissingAndBlank(t *testing.T) {
	payload := map[string]any{
		"b": "  ",
		"c": "value",
	}
	assert.Equal(t, "value", FirstString(payload, "a", "b", "c"))
	assert.Equal(t, "", FirstString(payload, "a", "b"))
}

func TestFirstStringNumericScalar(t *testing.T) {
	payload := map[string]any{"phone": float64(9171234)}
	assert.Equal(t, "9171234", FirstString(payload, "phone"))
}

func TestFirstStringNeverStringifiesComposites(t *testing.T) {
	payload := map[string]any{
		"name":     map[string]any{"weird": true},
		"fallback": "ok",
	}
	assert.Equal(t, "ok", FirstString(payload, "name", "fallback"))
}

func TestRawValueSkipsNil(t *testing.T) {
	payload := map[string]any{"a": nil, "b": 5}
	assert.Equal(t, 5, RawValue(payload, "a", "b"))
	assert.Nil(t, RawValue(payload, "missing"))
}

func TestItemDescriptions(t *testing.T) {
	payload := map[string]any{
		"items": []any{
			map[string]any{"description": "Shoes"},
			map[string]any{"name": "Bag"},
			map[string]any{"quantity": 3},
			"not-an-object",
		},
	}
	assert.Equal(t, []string{"Shoes", "Bag"}, ItemDescriptions(payload))
}

func TestItemsAlternateKeys(t *testing.T) {
	payload := map[string]any{
		"packages": []any{map[string]any{"description": "Box A"}},
	}
	items := Items(payload)
	assert.Len(t, items, 1)
	assert.Equal(t, "Box A", items[0]["description"])
}
