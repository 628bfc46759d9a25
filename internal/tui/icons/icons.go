// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: STOREFRONT_NERD_FONTS forces the choice either way

package icons

import (
	"os"
	"strings"
	"sync"
)

// EnvVar overrides terminal detection when set to 1/true or 0/false
const EnvVar = "STOREFRONT_NERD_FONTS"

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

var nerdFontTerminals = []string{
	"iTerm.app",
	"alacritty",
	"WezTerm",
	"kitty",
	"ghostty",
}

func detectNerdFonts(getenv func(string) string) bool {
	if env := getenv(EnvVar); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	term := getenv("TERM")
	termProgram := getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts(os.Getenv)
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	App      = Icon{"󰓜", "◈"} // nf-md-storefront
	Cart     = Icon{"󰄐", "⊞"} // nf-md-cart
	Heart    = Icon{"󰋑", "♥"} // nf-md-heart
	Package  = Icon{"󰏗", "▣"} // nf-md-package_variant
	Tag      = Icon{"󰓹", "#"} // nf-md-tag
	User     = Icon{"󰀄", "●"} // nf-md-account
	Users    = Icon{"󰡉", "◎"} // nf-md-account_group
	Money    = Icon{"󰄔", "$"} // nf-md-cash
	Truck    = Icon{"󰇙", "→"} // nf-md-truck

	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Lock    = Icon{"󰌾", "⚿"} // nf-md-lock
)
