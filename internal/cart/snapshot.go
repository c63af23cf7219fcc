package cart

import (
	"encoding/json"
	"fmt"
)

// snapshot is the persisted layout: a single JSON value under the cart key.
type snapshot struct {
	Items []Item `json:"items"`
}

func encodeSnapshot(items []Item) (string, error) {
	raw, err := json.Marshal(snapshot{Items: items})
	if err != nil {
		return "", fmt.Errorf("marshaling cart snapshot: %w", err)
	}
	return string(raw), nil
}

func decodeSnapshot(raw string) ([]Item, error) {
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling cart snapshot: %w", err)
	}
	return mergeItems(snap.Items), nil
}

// mergeItems normalizes wholesale input: quantities are floored at 1 and
// duplicate product ids are collapsed into one entry, summing quantities and
// keeping first-insertion order.
func mergeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if at, ok := index[item.Product.ID]; ok {
			out[at].Quantity += item.Quantity
			continue
		}
		index[item.Product.ID] = len(out)
		out = append(out, item)
	}
	return out
}
