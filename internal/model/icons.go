package model

// Glyphs shared by the terminal viewer and the text report.
const (
	IconMissing  = "✗" // Value missing in that version
	IconPresent  = "·" // Value present
	IconActive   = "●" // Website active
	IconInactive = "○" // Website inactive
	IconCell     = "█" // Filled matrix cell in the viewer
	IconSwatch   = "■" // Legend swatch
)
