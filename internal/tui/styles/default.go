package styles

// NewDefaultTheme creates the dark default theme.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "default",
		IsDark: true,

		// Blue/cyan tones
		Primary:   ParseHex("#61afef"),
		Secondary: ParseHex("#56b6c2"),
		Tertiary:  ParseHex("#3e4451"),
		Accent:    ParseHex("#c678dd"),

		BgBase:    ParseHex("#1e1e1e"),
		BgSubtle:  ParseHex("#252526"),
		BgOverlay: ParseHex("#2d2d30"),

		FgBase:   ParseHex("#abb2bf"),
		FgMuted:  ParseHex("#7f848e"),
		FgSubtle: ParseHex("#5c6370"),

		Border:      ParseHex("#3e4451"),
		BorderFocus: ParseHex("#61afef"),

		Success: ParseHex("#98c379"),
		Error:   ParseHex("#e06c75"),
		Warning: ParseHex("#e5c07b"),
		Info:    ParseHex("#61afef"),
	}
}

// NewLightTheme creates a light variant for bright terminals.
func NewLightTheme() *Theme {
	return &Theme{
		Name:   "light",
		IsDark: false,

		Primary:   ParseHex("#4078f2"),
		Secondary: ParseHex("#0184bc"),
		Tertiary:  ParseHex("#d0d0d0"),
		Accent:    ParseHex("#a626a4"),

		BgBase:    ParseHex("#fafafa"),
		BgSubtle:  ParseHex("#f0f0f0"),
		BgOverlay: ParseHex("#e5e5e6"),

		FgBase:   ParseHex("#383a42"),
		FgMuted:  ParseHex("#696c77"),
		FgSubtle: ParseHex("#a0a1a7"),

		Border:      ParseHex("#d0d0d0"),
		BorderFocus: ParseHex("#4078f2"),

		Success: ParseHex("#50a14f"),
		Error:   ParseHex("#e45649"),
		Warning: ParseHex("#c18401"),
		Info:    ParseHex("#4078f2"),
	}
}
