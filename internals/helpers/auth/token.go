package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (middleware should set these)
   ============================================ */

const (
	LocRole     = "role"      // string: school | reviewer | admin
	LocUserID   = "user_id"   // string | uuid
	LocUserName = "user_name" // string
	LocSchoolID = "school_id" // string UUID sekolah aktif pada token
)

/* ============================================
   Claim accessors
   ============================================ */

func localUUID(c *fiber.Ctx, key, emptyMsg, badMsg string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, emptyMsg)
	}
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, emptyMsg)
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, emptyMsg)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, badMsg)
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, badMsg)
	}
}

// GetSchoolIDFromToken mengambil school_id sekolah aktif dari token.
func GetSchoolIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return localUUID(c, LocSchoolID,
		"School ID tidak ditemukan di token",
		"School ID pada token tidak valid")
}

// GetRoleFromToken mengambil role tunggal dari token (fallback "user").
func GetRoleFromToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRole).(string); ok && strings.TrimSpace(v) != "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return "user"
}

// GetUserNameFromToken mengambil display name actor (boleh kosong).
func GetUserNameFromToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocUserName).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
