package styles

// DefaultTheme is the base palette before a theme is applied.
var DefaultTheme = Theme{
	Name: "azul",
	Tokens: ThemeTokens{
		Background: "#0B0F14",
		Panel:      "#121821",
		Text:       "#E6EDF3",
		TextMuted:  "#8B9AAE",
		Border:     "#3b8d9e",
		Accent:     "#3b8d9e",
		Focus:      "#0056b3",
		Highlight:  "#17a2b8",
		Success:    "#28a745",
		Warning:    "#ffc107",
		Error:      "#dc3545",
		Info:       "#17a2b8",
	},
}
