package acquire

import (
	"encoding/json"

	"github.com/PuerkitoBio/goquery"
)

// findRecipeIsland searches the page's JSON-LD script tags for an embedded
// recipe schema object. Publishers nest these inside @graph arrays or plain
// arrays; the search is recursive, depth-first, first match wins. The found
// blob is re-serialized and used as the page text itself.
func findRecipeIsland(doc *goquery.Document) (string, bool) {
	var blob string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var parsed any
		if err := json.Unmarshal([]byte(s.Text()), &parsed); err != nil {
			return true
		}
		node, ok := findRecipeNode(parsed)
		if !ok {
			return true
		}
		serialized, err := json.Marshal(node)
		if err != nil {
			return true
		}
		blob = string(serialized)
		return false
	})
	return blob, blob != ""
}

func findRecipeNode(v any) (map[string]any, bool) {
	switch node := v.(type) {
	case []any:
		for _, elem := range node {
			if found, ok := findRecipeNode(elem); ok {
				return found, true
			}
		}
	case map[string]any:
		if isRecipeType(node["@type"]) {
			return node, true
		}
		if graph, ok := node["@graph"]; ok {
			if found, ok := findRecipeNode(graph); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func isRecipeType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Recipe"
	case []any:
		for _, elem := range t {
			if s, ok := elem.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}
