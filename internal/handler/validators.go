package handler

import (
	"strings"

	"github.com/abgdnv/glowcart/internal/catalog"
	"github.com/abgdnv/glowcart/internal/service"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the retail rules registered:
//
//	nocomma      the value holds no comma or line break, so it survives the data file format
//	subcategory  (struct level) ProductDto.SubCategory belongs to ProductDto.Category
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nocomma", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), ",\r\n")
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(service.ProductDto)
		if p.Category != "" && !catalog.ValidSubCategory(p.Category, p.SubCategory) {
			sl.ReportError(p.SubCategory, "SubCategory", "subCategory", "subcategory", p.Category)
		}
	}, service.ProductDto{})
	return v
}
