package source

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Item is one document of a JSONL corpus.
type Item struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"text"`
}

// Key identifies the item as a source: its ID, else its URL.
func (it Item) Key() string {
	if it.ID != "" {
		return it.ID
	}
	return it.URL
}

// Items is an ordered JSONL corpus.
type Items []Item

// LoadJSONL loads items from a JSONL file. Malformed lines are skipped;
// items without ID or URL are keyed by their line number.
func LoadJSONL(path string) (Items, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items Items
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			continue
		}
		if item.Key() == "" {
			item.ID = "line-" + strconv.Itoa(i+1)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return items, nil
}

// Sources returns the item keys in corpus order.
func (items Items) Sources() []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}

// Reader serves item bodies keyed by Item.Key. Titles are prepended to the
// body so they contribute tokens too.
func (items Items) Reader() Static {
	out := make(Static, len(items))
	for _, it := range items {
		text := it.Body
		if it.Title != "" {
			text = it.Title + "\n" + text
		}
		out[it.Key()] = text
	}
	return out
}
