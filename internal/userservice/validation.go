package userservice

import (
	"regexp"

	"github.com/sushihentaime/nightblog/internal/common"
)

var (
	ThemeColorRX = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func validateSessionID(v *common.Validator, sessionID string) {
	v.Check(sessionID != "", "session_id", "must be provided")
	v.Check(len(sessionID) <= 512, "session_id", "must not be more than 512 bytes long")
}

func validateBio(v *common.Validator, bio string) {
	v.Check(v.CheckStringLength(bio, 0, 500), "bio", "must not be more than 500 characters long")
}

func validateThemeColor(v *common.Validator, color string) {
	v.Check(ThemeColorRX.MatchString(color), "theme_color", "must be a hex color such as #00ff88")
}
