// Package equipment holds the character equipment ledger: items, inventory categories,
// equipped slots, bags, currency, and the invariants that tie them together.
package equipment

// ItemType is the tag drawn from the fixed item vocabulary
type ItemType string

// Item types
const (
	TypeWeapon     ItemType = "weapon"
	TypeShield     ItemType = "shield"
	TypeArmor      ItemType = "armor"
	TypeClothing   ItemType = "clothing"
	TypeJewelry    ItemType = "jewelry"
	TypeConsumable ItemType = "consumable"
	TypePotion     ItemType = "potion"
	TypeAmmunition ItemType = "ammunition"
	TypeTool       ItemType = "tool"
	TypeLight      ItemType = "light"
	TypeQuest      ItemType = "quest"
	TypeKey        ItemType = "key"
	TypeDocument   ItemType = "document"
	TypeMaterial   ItemType = "material"
	TypeIngredient ItemType = "ingredient"
	TypeComponent  ItemType = "component"
	TypeTrinket    ItemType = "trinket"
	TypeKeepsake   ItemType = "keepsake"
	TypeMisc       ItemType = "misc"
)

// String returns the string representation of the item type
func (t ItemType) String() string {
	return string(t)
}

// IsKnown reports whether t is part of the vocabulary.
// Unknown types are still stored; they land in Personal and weigh the default.
func (t ItemType) IsKnown() bool {
	_, ok := categoryByType[t]
	return ok
}

// AllItemTypes returns the vocabulary in display order
func AllItemTypes() []ItemType {
	return []ItemType{
		TypeWeapon, TypeShield, TypeArmor, TypeClothing, TypeJewelry,
		TypeConsumable, TypePotion, TypeAmmunition, TypeTool, TypeLight,
		TypeQuest, TypeKey, TypeDocument,
		TypeMaterial, TypeIngredient, TypeComponent,
		TypeTrinket, TypeKeepsake, TypeMisc,
	}
}

// Category is one of the fixed inventory sections
type Category string

// Inventory categories
const (
	CategoryGear     Category = "gear"
	CategoryUtility  Category = "utility"
	CategoryQuest    Category = "quest"
	CategoryCrafting Category = "crafting"
	CategoryPersonal Category = "personal"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is one of the fixed set
func (c Category) IsValid() bool {
	switch c {
	case CategoryGear, CategoryUtility, CategoryQuest, CategoryCrafting, CategoryPersonal:
		return true
	default:
		return false
	}
}

// AllCategories returns the categories in display order
func AllCategories() []Category {
	return []Category{
		CategoryGear,
		CategoryUtility,
		CategoryQuest,
		CategoryCrafting,
		CategoryPersonal,
	}
}

// CategoryFromString converts a string to a Category
// Returns the category and true if valid, empty category and false if invalid
func CategoryFromString(s string) (Category, bool) {
	c := Category(s)
	if c.IsValid() {
		return c, true
	}
	return "", false
}

var categoryByType = map[ItemType]Category{
	TypeWeapon:     CategoryGear,
	TypeShield:     CategoryGear,
	TypeArmor:      CategoryGear,
	TypeClothing:   CategoryGear,
	TypeJewelry:    CategoryGear,
	TypeConsumable: CategoryUtility,
	TypePotion:     CategoryUtility,
	TypeAmmunition: CategoryUtility,
	TypeTool:       CategoryUtility,
	TypeLight:      CategoryUtility,
	TypeQuest:      CategoryQuest,
	TypeKey:        CategoryQuest,
	TypeDocument:   CategoryQuest,
	TypeMaterial:   CategoryCrafting,
	TypeIngredient: CategoryCrafting,
	TypeComponent:  CategoryCrafting,
	TypeTrinket:    CategoryPersonal,
	TypeKeepsake:   CategoryPersonal,
	TypeMisc:       CategoryPersonal,
}

// CategoryFor returns the category an item type belongs to; unmapped types are Personal
func CategoryFor(t ItemType) Category {
	if c, ok := categoryByType[t]; ok {
		return c
	}
	return CategoryPersonal
}
