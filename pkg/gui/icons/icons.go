package icons

// Nerd Font icons for the lazybuild UI.
// These require a Nerd Font to display correctly.
// See: https://www.nerdfonts.com/cheat-sheet

var enabled = true

// IsEnabled returns whether icons are enabled
func IsEnabled() bool {
	return enabled
}

// SetEnabled enables or disables icons globally
func SetEnabled(e bool) {
	enabled = e
	if !e {
		disableAllIcons()
	}
}

var (
	// Panel title icons
	XCODE_ICON         = "\U000f0a2f" // 󰨯 (hammer-wrench)
	TARGET_ICON        = "\U000f04fe" // 󰓾 (target)
	CONFIGURATION_ICON = "\U000f0493" // 󰒓 (cog)
	SETTINGS_ICON      = "\U000f0219" // 󰈙 (file-document)
	COMMAND_ICON       = "\U000f018d" // 󰆍 (console)
	KEYBOARD_ICON      = "\U000f030c" // 󰌌 (keyboard)

	// List icons
	PROJECT   = "\U000f0766" // 󰝦 (package)
	APP       = "\U000f0381" // 󰎁 (application)
	BUILD_CFG = "\U000f08d6" // 󰣖 (tune)

	// Status icons
	SELECTED = "\U000f012c" // 󰄬 (check)
	LOADING  = "\U000f0772" // 󰝲 (loading)
	ERROR    = "\U000f0159" // 󰅙 (close-circle)
	SUCCESS  = "\U000f0134" // 󰄴 (check-circle)
	WARNING  = "\U000f0026" // 󰀦 (alert)
	SKIPPED  = "\U000f0156" // 󰅖 (close)

	// Action icons
	REFRESH = "\U000f0450" // 󰑐 (refresh)
	COPY    = "\U000f018f" // 󰆏 (content-copy)
	SAVE    = "\U000f0193" // 󰆓 (content-save)
	SEARCH  = "\U000f0349" // 󰍉 (magnify)
)

// disableAllIcons sets icons to empty strings, keeping plain text status marks
func disableAllIcons() {
	XCODE_ICON = ""
	TARGET_ICON = ""
	CONFIGURATION_ICON = ""
	SETTINGS_ICON = ""
	COMMAND_ICON = ""
	KEYBOARD_ICON = ""
	PROJECT = ""
	APP = ""
	BUILD_CFG = ""
	SELECTED = "✓"
	LOADING = "…"
	ERROR = "✗"
	SUCCESS = "✓"
	WARNING = "!"
	SKIPPED = "-"
	REFRESH = ""
	COPY = ""
	SAVE = ""
	SEARCH = ""
}

// PatchForNerdFontsV2 swaps the icons whose code points moved in v3
func PatchForNerdFontsV2() {
	XCODE_ICON = "\uf7d9"
	TARGET_ICON = "\uf05b"
	CONFIGURATION_ICON = "\uf013"
	APP = "\uf10b"
}

// WithSpace returns icon followed by a space, or "" when icons are off.
func WithSpace(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}
