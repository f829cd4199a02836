package dto

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

var campusRoles = map[string]bool{
	"superadmin": true,
	"admin":      true,
	"alumni":     true,
	"student":    true,
}

// RegisterValidators 向 gin 的校验引擎注册自定义规则，可重复调用
//   - campus_role: superadmin | admin | alumni | student
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("campus_role", func(fl validator.FieldLevel) bool {
			return campusRoles[fl.Field().String()]
		})
	})
}
