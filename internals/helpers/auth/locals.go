package helperAuth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Kunci Locals yang di-hydrate oleh middleware AuthJWT.
const (
	LocUserID    = "user_id"
	LocTeacherID = "teacher_id"
	LocStudentID = "student_id"
	LocRoles     = "roles"
	LocJWTClaims = "jwt_claims"
)

func localUUID(c *fiber.Ctx, key string) (uuid.UUID, error) {
	v := c.Locals(key)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid")
	}
	return id, nil
}

// GetUserIDFromToken mengambil user_id dari locals hasil JWT.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return localUUID(c, LocUserID)
}

// GetTeacherIDFromToken mengambil teacher_id dari locals hasil JWT.
func GetTeacherIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return localUUID(c, LocTeacherID)
}

// GetStudentIDFromToken mengambil student_id dari locals hasil JWT.
func GetStudentIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return localUUID(c, LocStudentID)
}

// Roles mengembalikan daftar role dari locals (hasil claim "roles").
func Roles(c *fiber.Ctx) []string {
	switch v := c.Locals(LocRoles).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, it := range v {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func HasRole(c *fiber.Ctx, want ...string) bool {
	roles := Roles(c)
	for _, r := range roles {
		for _, w := range want {
			if strings.EqualFold(r, w) {
				return true
			}
		}
	}
	return false
}
