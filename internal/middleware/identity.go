package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// requestUserID returns the authenticated user id as a string for
// rate-limit bucket keys, or "anon" on public routes.
func requestUserID(c echo.Context) string {
	if uid, ok := c.Get("user_id").(uint64); ok && uid != 0 {
		return strconv.FormatUint(uid, 10)
	}
	return "anon"
}
