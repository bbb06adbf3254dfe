package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// assetNamePattern constrains identifier fields that end up inside
// storage keys. No slashes, no dots, nothing that could alter the path.
var assetNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("assetname", func(fl validator.FieldLevel) bool {
			return assetNamePattern.MatchString(fl.Field().String())
		})
	}
}
