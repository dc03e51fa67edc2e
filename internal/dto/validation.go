package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
)

// RegisterValidators 注册自定义 binding 标签
//   - objectid: 24 位十六进制标识
//   - program_status: 项目状态封闭集合
//   - role: 角色封闭集合
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return model.IsObjectID(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("program_status", func(fl validator.FieldLevel) bool {
		return model.IsValidProgramStatus(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.IsValidRole(fl.Field().String())
	})
}
