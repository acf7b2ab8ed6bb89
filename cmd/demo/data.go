package main

import (
	"fmt"

	"github.com/google/uuid"

	vlist "github.com/floor/vlist"
)

// syntheticItems builds n rows with a stable UUID id and placeholder-free
// title/subtitle text, for driving the demo without a real backing store.
func syntheticItems(n int) []vlist.Item {
	items := make([]vlist.Item, n)
	for i := range items {
		items[i] = vlist.Item{
			"id":       uuid.NewString(),
			"title":    fmt.Sprintf("Row %d", i),
			"subtitle": fmt.Sprintf("synthetic entry #%d", i),
		}
	}
	return items
}
