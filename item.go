package vlist

import "github.com/spf13/cast"

// Item is an opaque record owned by the caller. The engine never
// interprets field values except to resolve an identity and, for
// placeholders, to infer a type hint.
type Item map[string]any

// PlaceholderFlag is the reserved boolean field that marks a synthetic item.
// Features must check this before acting on click/selection
// targets.
const PlaceholderFlag = "__placeholder"

// PlaceholderIDField carries the stable synthetic ID of a placeholder item.
const PlaceholderIDField = "__placeholder_id"

// ItemID resolves an item's stable identity. Both "id" and "_id" are
// accepted; "id" wins if both are present. Returns
// "" if neither key is present or the value can't be cast to a string.
func ItemID(item Item) string {
	if item == nil {
		return ""
	}
	if v, ok := item["id"]; ok {
		return cast.ToString(v)
	}
	if v, ok := item["_id"]; ok {
		return cast.ToString(v)
	}
	return ""
}

// IsPlaceholder reports whether item carries the reserved placeholder flag.
func IsPlaceholder(item Item) bool {
	if item == nil {
		return false
	}
	return cast.ToBool(item[PlaceholderFlag])
}
