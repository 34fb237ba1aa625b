// Package catalog provides the ordered product index of the shop.
package catalog

import "slices"

// Product represents one catalog item.
type Product struct {
	Code        int
	Name        string
	Category    string
	SubCategory string
	SkinType    string
	Range       string
	Price       float64
	Quantity    int
}

// Categories lists the accepted product categories.
var Categories = []string{"Skincare", "Haircare", "Makeup"}

// SkinTypes lists the accepted skin types.
var SkinTypes = []string{"Oily", "Dry", "Combination", "Sensitive", "All"}

// Ranges lists the accepted price ranges.
var Ranges = []string{"Low", "Medium", "High"}

var subCategories = map[string][]string{
	"Skincare": {
		"Cleansers", "Exfoliants", "Toners", "Serums", "Moisturizers", "Sunscreens",
		"Eye Creams", "Face Masks", "Spot Treatments", "Facial Oils", "Essences",
		"Face Mists", "Lip Care", "Anti-Aging Products", "Acne Treatments",
		"Brightening Products",
	},
	"Haircare": {
		"Shampoo", "Conditioner", "Hair Oil", "Hair Mask", "Hair Serum", "Hair Spray",
		"Hair Mousse", "Hair Gel", "Leave-In Conditioner", "Hair Cream", "Hair Wax",
		"Hair Foam", "Hair Balm", "Hair Treatment", "Dry Shampoo", "Heat Protectant",
		"Hair Toner", "Hair Detangler", "Scalp Scrub", "Hair Fragrance",
	},
	"Makeup": {
		"Foundation", "Concealer", "Powder", "Blush", "Bronzer", "Highlighter",
		"Contour", "Primer", "Eyeshadow", "Eyeliner", "Mascara", "Eyebrow Pencil",
		"Eyebrow Gel", "Lipstick", "Lip Gloss", "Lip Liner", "Lip Balm",
		"Setting Spray", "Setting Powder", "BB Cream", "CC Cream",
		"Tinted Moisturizer", "Eyelash Curler", "Face Mist", "Makeup Remover",
		"Eyebrow Powder", "Lip Stain", "Eyeshadow Primer", "Lip Plumper",
		"Color Corrector",
	},
}

// SubCategories returns the sub-categories accepted for category, or nil for an unknown category.
func SubCategories(category string) []string {
	return slices.Clone(subCategories[category])
}

// ValidSubCategory reports whether sub is one of the sub-categories of category.
func ValidSubCategory(category, sub string) bool {
	return slices.Contains(subCategories[category], sub)
}

// Matches reports whether p carries exactly the given classification.
func (p Product) Matches(category, subCategory, skinType, priceRange string) bool {
	return p.Category == category &&
		p.SubCategory == subCategory &&
		p.SkinType == skinType &&
		p.Range == priceRange
}
