package features

import (
	"github.com/gofiber/fiber/v2"

	"examku_backend/internals/constants"
	helperAuth "examku_backend/internals/helpers/auth"
)

// IsExamAdmin: semua operasi mutasi engine alokasi ujian admin-only.
func IsExamAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helperAuth.HasRole(c, constants.AdminRoles...) {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin("logistik ujian"))
		}
		return c.Next()
	}
}

// IsTeacherOrAdmin: endpoint baca roster pengawas.
func IsTeacherOrAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helperAuth.HasRole(c, constants.RoleTeacher, constants.RoleAdmin, constants.RoleOwner) {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTeacher("roster pengawas"))
		}
		return c.Next()
	}
}
