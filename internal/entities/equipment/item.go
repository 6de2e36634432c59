package equipment

import (
	"strings"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// Item is one carried thing. It is owned by exactly one inventory category.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        ItemType `json:"type"`
	Description string   `json:"description,omitempty"`
	Features    string   `json:"features,omitempty"`
	Dice        string   `json:"dice,omitempty"`
	Ability     string   `json:"ability,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Clone returns a deep copy of the item
func (i Item) Clone() Item {
	if i.Tags != nil {
		i.Tags = append([]string(nil), i.Tags...)
	}
	return i
}

// HasTag reports whether the item carries tag (case-insensitive)
func (i Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ItemFields are the caller-supplied fields of a new item
type ItemFields struct {
	Name        string
	Type        ItemType
	Description string
	Features    string
	Dice        string
	Ability     string
	Tags        []string
}

// Validate checks the required fields
func (f ItemFields) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", f.Name, vb)
	errors.ValidateRequired("type", string(f.Type), vb)
	validateDice("dice", f.Dice, vb)
	return vb.Build()
}

func (f ItemFields) toItem(id string) Item {
	return Item{
		ID:          id,
		Name:        strings.TrimSpace(f.Name),
		Type:        ItemType(strings.ToLower(strings.TrimSpace(string(f.Type)))),
		Description: f.Description,
		Features:    f.Features,
		Dice:        strings.TrimSpace(f.Dice),
		Ability:     f.Ability,
		Tags:        normalizeTags(f.Tags),
	}
}

// ItemPatch lists the fields an edit replaces; nil fields are left alone
type ItemPatch struct {
	Name        *string
	Type        *ItemType
	Description *string
	Features    *string
	Dice        *string
	Ability     *string
	Tags        []string
	ClearTags   bool
}

// IsEmpty reports whether the patch changes nothing
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Description == nil && p.Features == nil &&
		p.Dice == nil && p.Ability == nil && p.Tags == nil && !p.ClearTags
}

// Validate checks that the patch does not blank a required field
func (p ItemPatch) Validate() error {
	vb := errors.NewValidationBuilder()
	if p.Name != nil {
		errors.ValidateRequired("name", *p.Name, vb)
	}
	if p.Type != nil {
		errors.ValidateRequired("type", string(*p.Type), vb)
	}
	if p.Dice != nil {
		validateDice("dice", *p.Dice, vb)
	}
	return vb.Build()
}

func (p ItemPatch) apply(item *Item) {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Type != nil {
		item.Type = ItemType(strings.ToLower(strings.TrimSpace(string(*p.Type))))
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Features != nil {
		item.Features = *p.Features
	}
	if p.Dice != nil {
		item.Dice = strings.TrimSpace(*p.Dice)
	}
	if p.Ability != nil {
		item.Ability = *p.Ability
	}
	switch {
	case p.ClearTags:
		item.Tags = nil
	case p.Tags != nil:
		item.Tags = normalizeTags(p.Tags)
	}
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
