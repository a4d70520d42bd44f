package convert

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Contact holds the canonical scalar fields resolved for one role.
type Contact struct {
	Name    string
	Phone   string
	Address string
	City    string
	Country string
}

// contactPaths maps each semantic field to the ordered candidate locations
// intake records have been observed to use. The first non-empty value wins;
// first/last name parts are a concatenation fallback when no full-name
// candidate matched.
type contactPaths struct {
	name      []string
	firstName []string
	lastName  []string
	phone     []string
	address   []string
	city      []string
	country   []string
}

var senderPaths = contactPaths{
	name: []string{
		"customer_name", "customerName",
		"sender.full_name", "sender.fullName", "sender.name",
		"sender_name", "name",
	},
	firstName: []string{"sender.first_name", "sender.firstName", "first_name", "firstName"},
	lastName:  []string{"sender.last_name", "sender.lastName", "last_name", "lastName"},
	phone: []string{
		"customer_phone", "customerPhone",
		"sender.phone", "sender.contact_number", "sender.contactNumber", "sender.mobile",
		"phone", "contact_number",
	},
	address: []string{
		"customer_address",
		"sender.address", "sender.full_address", "sender.complete_address", "sender.completeAddress",
		"address",
	},
	city:    []string{"sender.city", "city"},
	country: []string{"sender.country", "country"},
}

var receiverPaths = contactPaths{
	name: []string{
		"receiver_name", "receiverName",
		"receiver.full_name", "receiver.fullName", "receiver.name",
		"consignee.full_name", "consignee.name", "consignee_name",
	},
	firstName: []string{"receiver.first_name", "receiver.firstName", "consignee.first_name"},
	lastName:  []string{"receiver.last_name", "receiver.lastName", "consignee.last_name"},
	phone: []string{
		"receiver_phone", "receiverPhone",
		"receiver.phone", "receiver.contact_number", "receiver.contactNumber", "receiver.mobile",
		"consignee.phone", "consignee.contact_number",
	},
	address: []string{
		"receiver_address",
		"receiver.address", "receiver.full_address", "receiver.complete_address", "receiver.completeAddress",
		"consignee.address", "consignee.complete_address",
	},
	city:    []string{"receiver.city", "consignee.city"},
	country: []string{"receiver.country", "consignee.country"},
}

// SenderContact resolves the customer-side fields from a raw intake payload.
func SenderContact(payload map[string]any) Contact {
	return resolveContact(payload, senderPaths)
}

// ReceiverContact resolves the consignee-side fields from a raw intake payload.
func ReceiverContact(payload map[string]any) Contact {
	return resolveContact(payload, receiverPaths)
}

func resolveContact(payload map[string]any, paths contactPaths) Contact {
	name := firstAt(payload, paths.name)
	if name == "" {
		first := firstAt(payload, paths.firstName)
		last := firstAt(payload, paths.lastName)
		if first != "" && last != "" {
			name = first + " " + last
		}
	}
	return Contact{
		Name:    name,
		Phone:   firstAt(payload, paths.phone),
		Address: firstAt(payload, paths.address),
		City:    firstAt(payload, paths.city),
		Country: firstAt(payload, paths.country),
	}
}

// FirstString evaluates candidate dot-paths and returns the first non-empty
// scalar, trimmed. Missing sub-objects simply contribute no candidate.
func FirstString(payload map[string]any, paths ...string) string {
	return firstAt(payload, paths)
}

// RawValue returns the first present, non-nil value among top-level keys
// without stringifying it.
func RawValue(payload map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := payload[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstAt(payload map[string]any, paths []string) string {
	for _, p := range paths {
		if v := lookupPath(payload, p); v != "" {
			return v
		}
	}
	return ""
}

func lookupPath(payload map[string]any, path string) string {
	cur := any(payload)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = obj[seg]
		if !ok {
			return ""
		}
	}
	return scalarString(cur)
}

// scalarString renders loosely typed intake scalars (phone numbers arrive as
// JSON numbers often enough) without ever stringifying composite values.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Items returns the booking's item list as loosely typed maps. Entries that
// are not objects are skipped rather than failing the conversion.
func Items(payload map[string]any) []map[string]any {
	return listAt(payload, "items", "item_list", "itemList", "packages")
}

// Boxes returns the booking's explicit box list when one exists.
func Boxes(payload map[string]any) []map[string]any {
	return listAt(payload, "boxes", "box_list", "boxList")
}

// ItemDescriptions collects the non-empty description of every item.
func ItemDescriptions(payload map[string]any) []string {
	var out []string
	for _, it := range Items(payload) {
		if d := FirstString(it, "description", "item_description", "itemDescription", "name"); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func listAt(payload map[string]any, keys ...string) []map[string]any {
	for _, k := range keys {
		raw, ok := payload[k]
		if !ok {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(list))
		for _, el := range list {
			if m, ok := el.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
