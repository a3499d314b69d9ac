package models

type Recipe struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SandwichID uint      `json:"sandwich_id" gorm:"not null;index"`
	Sandwich   *Sandwich `json:"sandwich,omitempty" gorm:"foreignKey:SandwichID"`
	ResourceID uint      `json:"resource_id" gorm:"not null;index"`
	Resource   *Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
	Amount     int       `json:"amount" gorm:"not null"`
	Unit       string    `json:"unit" gorm:"size:20;not null;default:'piece'"`
}

// MissingIngredient names a recipe resource that cannot cover a request
type MissingIngredient struct {
	Ingredient string `json:"ingredient"`
	Needed     int    `json:"needed"`
	Available  int    `json:"available"`
	Unit       string `json:"unit"`
}

type Availability struct {
	SandwichID              uint                `json:"sandwich_id"`
	Quantity                int                 `json:"quantity"`
	CanFulfill              bool                `json:"can_fulfill"`
	InsufficientIngredients []MissingIngredient `json:"insufficient_ingredients"`
}

type RecipeDetail struct {
	RecipeID       uint   `json:"recipe_id"`
	Amount         int    `json:"amount"`
	Unit           string `json:"unit"`
	IngredientName string `json:"ingredient_name"`
	AvailableStock int    `json:"available_stock"`
}
