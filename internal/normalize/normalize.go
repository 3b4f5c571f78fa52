// Package normalize converts raw model output text into a validated
// ExtractedRecipe. It tolerates markdown fences, malformed JSON, array
// wrapping, and missing or aliased fields; untyped data never leaks past
// this package.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/itstoasti/Snaprecipes/internal/content"
	"github.com/itstoasti/Snaprecipes/recipe"
)

// Result carries the normalized recipe plus the defaulting events applied
// along the way. Defaults is telemetry, not an error: a non-empty list still
// means a usable recipe.
type Result struct {
	Recipe   recipe.ExtractedRecipe
	Defaults []string
}

// the LLM may wrap the JSON in backticks or bury it in prose
var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Normalize parses raw model text into a strict ExtractedRecipe.
// candidateImage is the acquisition-time thumbnail, substituted when the
// model picked no image at all.
func Normalize(raw, candidateImage string) (Result, error) {
	text := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(text)
		if rerr != nil {
			return Result{}, &recipe.MalformedResponseError{Excerpt: content.Truncate(raw, content.ExcerptLength)}
		}
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return Result{}, &recipe.MalformedResponseError{Excerpt: content.Truncate(raw, content.ExcerptLength)}
		}
	}

	obj, err := unwrap(parsed)
	if err != nil {
		var notRecipe *notRecipeShaped
		if errors.As(err, &notRecipe) {
			// repair produced valid JSON that still isn't recipe-shaped
			return Result{}, &recipe.MalformedResponseError{Excerpt: content.Truncate(raw, content.ExcerptLength)}
		}
		return Result{}, err
	}

	res := coerce(obj)

	if res.Recipe.ImageURL == "" && candidateImage != "" {
		res.Recipe.ImageURL = candidateImage
		res.Defaults = append(res.Defaults, "imageUrl substituted from acquisition thumbnail")
	}
	if res.Recipe.ImageURL != "" && isUnreliableImageHost(res.Recipe.ImageURL) {
		res.Recipe.ImageBestEffort = true
	}
	return res, nil
}

// unwrap reduces the parsed value to a single recipe object. Models
// sometimes return an array of one; an empty array is a hard failure.
func unwrap(parsed any) (map[string]any, error) {
	switch v := parsed.(type) {
	case map[string]any:
		return v, nil
	case []any:
		if len(v) == 0 {
			return nil, &recipe.EmptyResponseError{Reason: "model returned an empty array"}
		}
		if obj, ok := v[0].(map[string]any); ok {
			return obj, nil
		}
		return nil, &notRecipeShaped{}
	default:
		return nil, &notRecipeShaped{}
	}
}

// notRecipeShaped marks parses that yielded a bare scalar instead of an
// object or array; the caller reports these as malformed.
type notRecipeShaped struct{}

func (e *notRecipeShaped) Error() string { return "response was not a recipe object" }

// coerce applies field-level defaulting to the unwrapped object.
func coerce(obj map[string]any) Result {
	var res Result

	res.Recipe.Title = asString(obj["title"])
	if res.Recipe.Title == "" {
		res.Recipe.Title = recipe.DefaultTitle
		res.Defaults = append(res.Defaults, "title defaulted")
	}
	res.Recipe.Description = asString(obj["description"])
	res.Recipe.ImageURL = asString(obj["imageUrl"])
	res.Recipe.PrepTime = asString(obj["prepTime"])
	res.Recipe.CookTime = asString(obj["cookTime"])

	res.Recipe.Servings = asPositiveInt(obj["servings"])
	if res.Recipe.Servings == 0 {
		res.Recipe.Servings = recipe.DefaultServings
		res.Defaults = append(res.Defaults, "servings defaulted")
	}

	ingredients, dropped := coerceIngredients(firstArray(obj, "ingredients", "ingredient"))
	res.Recipe.Ingredients = ingredients
	if dropped > 0 {
		res.Defaults = append(res.Defaults, fmt.Sprintf("dropped %d empty ingredient rows", dropped))
	}

	steps, dropped := coerceSteps(firstArray(obj, "steps", "instructions", "instruction", "method"))
	res.Recipe.Steps = steps
	if dropped > 0 {
		res.Defaults = append(res.Defaults, fmt.Sprintf("dropped %d empty step rows", dropped))
	}

	if tags, ok := obj["tags"].([]any); ok {
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s := asString(t); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			res.Recipe.Tags = out
		}
	}

	return res
}

func coerceIngredients(raw []any) (out []recipe.Ingredient, dropped int) {
	out = make([]recipe.Ingredient, 0, len(raw))
	for _, entry := range raw {
		var ing recipe.Ingredient
		switch v := entry.(type) {
		case map[string]any:
			ing.Text = asString(v["text"])
			ing.Quantity = asString(v["quantity"])
			ing.Unit = asString(v["unit"])
			ing.Name = asString(v["name"])
		case string:
			ing.Text = strings.TrimSpace(v)
		default:
			dropped++
			continue
		}
		if ing.Text == "" {
			ing.Text = content.CollapseWhitespace(ing.Quantity + " " + ing.Unit + " " + ing.Name)
		}
		if ing.Text == "" && ing.Name == "" {
			dropped++
			continue
		}
		if ing.Name == "" {
			ing.Name = ing.Text
		}
		out = append(out, ing)
	}
	return out, dropped
}

func coerceSteps(raw []any) (out []recipe.Step, dropped int) {
	out = make([]recipe.Step, 0, len(raw))
	for _, entry := range raw {
		var step recipe.Step
		switch v := entry.(type) {
		case map[string]any:
			step.Text = asString(v["text"])
			if step.Text == "" {
				step.Text = asString(v["instruction"])
			}
			if step.Text == "" {
				step.Text = asString(v["description"])
			}
			step.StepNumber = asPositiveInt(v["stepNumber"])
			if step.StepNumber == 0 {
				step.StepNumber = asPositiveInt(v["number"])
			}
		case string:
			step.Text = strings.TrimSpace(v)
		default:
			dropped++
			continue
		}
		if step.Text == "" {
			dropped++
			continue
		}
		if step.StepNumber == 0 {
			step.StepNumber = len(out) + 1
		}
		out = append(out, step)
	}

	// explicit numbering survives only when it already forms the 1..n
	// sequence; anything else is renumbered by post-filter position
	for i := range out {
		if out[i].StepNumber != i+1 {
			for j := range out {
				out[j].StepNumber = j + 1
			}
			break
		}
	}
	return out, dropped
}

// firstArray returns the first key that holds an array; a present but
// non-array value coerces to empty.
func firstArray(obj map[string]any, keys ...string) []any {
	for _, key := range keys {
		if arr, ok := obj[key].([]any); ok {
			return arr
		}
	}
	return nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asPositiveInt(v any) int {
	switch t := v.(type) {
	case float64:
		if n := int(t); n > 0 {
			return n
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
