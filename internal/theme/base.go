package theme

import "sync"

var (
	baseTheme *Theme
	baseOnce  sync.Once
)

// Base returns the built-in default theme. It is built once per process and
// must be treated as read-only.
func Base() *Theme {
	baseOnce.Do(func() {
		baseTheme = buildBase()
	})
	return baseTheme
}

func buildBase() *Theme {
	spacing := spacingEntries()

	scales := map[string]*Scale{
		"spacing": NewScale(spacing...),
		"colors":  NewScale(colorEntries()...),
		"brightness": NewScale(
			Entry{"0", "0"},
			Entry{"50", ".5"},
			Entry{"75", ".75"},
			Entry{"90", ".9"},
			Entry{"95", ".95"},
			Entry{"100", "1"},
			Entry{"105", "1.05"},
			Entry{"110", "1.1"},
			Entry{"125", "1.25"},
			Entry{"150", "1.5"},
			Entry{"200", "2"},
		),
		"contrast": NewScale(
			Entry{"0", "0"},
			Entry{"50", ".5"},
			Entry{"75", ".75"},
			Entry{"100", "1"},
			Entry{"125", "1.25"},
			Entry{"150", "1.5"},
			Entry{"200", "2"},
		),
		"saturate": NewScale(
			Entry{"0", "0"},
			Entry{"50", ".5"},
			Entry{"100", "1"},
			Entry{"150", "1.5"},
			Entry{"200", "2"},
		),
		"opacity": NewScale(
			Entry{"0", "0"},
			Entry{"5", "0.05"},
			Entry{"10", "0.1"},
			Entry{"20", "0.2"},
			Entry{"25", "0.25"},
			Entry{"30", "0.3"},
			Entry{"40", "0.4"},
			Entry{"50", "0.5"},
			Entry{"60", "0.6"},
			Entry{"70", "0.7"},
			Entry{"75", "0.75"},
			Entry{"80", "0.8"},
			Entry{"90", "0.9"},
			Entry{"95", "0.95"},
			Entry{"100", "1"},
		),
		"fontSize": NewScale(
			Entry{"xs", "0.75rem"},
			Entry{"sm", "0.875rem"},
			Entry{"base", "1rem"},
			Entry{"lg", "1.125rem"},
			Entry{"xl", "1.25rem"},
			Entry{"2xl", "1.5rem"},
			Entry{"3xl", "1.875rem"},
			Entry{"4xl", "2.25rem"},
			Entry{"5xl", "3rem"},
		),
		"fontWeight": NewScale(
			Entry{"thin", "100"},
			Entry{"extralight", "200"},
			Entry{"light", "300"},
			Entry{"normal", "400"},
			Entry{"medium", "500"},
			Entry{"semibold", "600"},
			Entry{"bold", "700"},
			Entry{"extrabold", "800"},
			Entry{"black", "900"},
		),
		"lineHeight": NewScale(
			Entry{"none", "1"},
			Entry{"tight", "1.25"},
			Entry{"snug", "1.375"},
			Entry{"normal", "1.5"},
			Entry{"relaxed", "1.625"},
			Entry{"loose", "2"},
		),
		"borderRadius": NewScale(
			Entry{"none", "0px"},
			Entry{"sm", "0.125rem"},
			Entry{"DEFAULT", "0.25rem"},
			Entry{"md", "0.375rem"},
			Entry{"lg", "0.5rem"},
			Entry{"xl", "0.75rem"},
			Entry{"2xl", "1rem"},
			Entry{"full", "9999px"},
		),
		"borderWidth": NewScale(
			Entry{"DEFAULT", "1px"},
			Entry{"0", "0px"},
			Entry{"2", "2px"},
			Entry{"4", "4px"},
			Entry{"8", "8px"},
		),
		"width": NewScale(concat(spacing, fractionEntries(), []Entry{
			{"auto", "auto"},
			{"full", "100%"},
			{"screen", "100vw"},
			{"min", "min-content"},
			{"max", "max-content"},
			{"fit", "fit-content"},
		})...),
		"height": NewScale(concat(spacing, fractionEntries(), []Entry{
			{"auto", "auto"},
			{"full", "100%"},
			{"screen", "100vh"},
			{"min", "min-content"},
			{"max", "max-content"},
			{"fit", "fit-content"},
		})...),
		"size": NewScale(concat(spacing, fractionEntries(), []Entry{
			{"auto", "auto"},
			{"full", "100%"},
		})...),
		"minWidth": NewScale(
			Entry{"0", "0px"},
			Entry{"full", "100%"},
			Entry{"min", "min-content"},
			Entry{"max", "max-content"},
		),
		"maxWidth": NewScale(
			Entry{"none", "none"},
			Entry{"xs", "20rem"},
			Entry{"sm", "24rem"},
			Entry{"md", "28rem"},
			Entry{"lg", "32rem"},
			Entry{"xl", "36rem"},
			Entry{"2xl", "42rem"},
			Entry{"full", "100%"},
			Entry{"prose", "65ch"},
		),
		"inset": NewScale(concat(spacing, fractionEntries(), []Entry{
			{"auto", "auto"},
			{"full", "100%"},
		})...),
		"zIndex": NewScale(
			Entry{"0", "0"},
			Entry{"10", "10"},
			Entry{"20", "20"},
			Entry{"30", "30"},
			Entry{"40", "40"},
			Entry{"50", "50"},
			Entry{"auto", "auto"},
		),
		"transitionDuration": NewScale(
			Entry{"DEFAULT", "150ms"},
			Entry{"0", "0s"},
			Entry{"75", "75ms"},
			Entry{"100", "100ms"},
			Entry{"150", "150ms"},
			Entry{"200", "200ms"},
			Entry{"300", "300ms"},
			Entry{"500", "500ms"},
			Entry{"700", "700ms"},
			Entry{"1000", "1000ms"},
		),
		"screens": NewScale(
			Entry{"sm", "640px"},
			Entry{"md", "768px"},
			Entry{"lg", "1024px"},
			Entry{"xl", "1280px"},
			Entry{"2xl", "1536px"},
		),
	}

	return &Theme{scales: scales}
}

func spacingEntries() []Entry {
	return []Entry{
		{"px", "1px"},
		{"0", "0px"},
		{"0.5", "0.125rem"},
		{"1", "0.25rem"},
		{"1.5", "0.375rem"},
		{"2", "0.5rem"},
		{"2.5", "0.625rem"},
		{"3", "0.75rem"},
		{"3.5", "0.875rem"},
		{"4", "1rem"},
		{"5", "1.25rem"},
		{"6", "1.5rem"},
		{"7", "1.75rem"},
		{"8", "2rem"},
		{"9", "2.25rem"},
		{"10", "2.5rem"},
		{"11", "2.75rem"},
		{"12", "3rem"},
		{"14", "3.5rem"},
		{"16", "4rem"},
		{"20", "5rem"},
		{"24", "6rem"},
		{"28", "7rem"},
		{"32", "8rem"},
		{"36", "9rem"},
		{"40", "10rem"},
		{"44", "11rem"},
		{"48", "12rem"},
		{"52", "13rem"},
		{"56", "14rem"},
		{"60", "15rem"},
		{"64", "16rem"},
		{"72", "18rem"},
		{"80", "20rem"},
		{"96", "24rem"},
	}
}

func fractionEntries() []Entry {
	return []Entry{
		{"1/2", "50%"},
		{"1/3", "33.333333%"},
		{"2/3", "66.666667%"},
		{"1/4", "25%"},
		{"2/4", "50%"},
		{"3/4", "75%"},
		{"1/5", "20%"},
		{"2/5", "40%"},
		{"3/5", "60%"},
		{"4/5", "80%"},
		{"1/6", "16.666667%"},
		{"5/6", "83.333333%"},
	}
}

// palette shades, lightest first
var shades = []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

var palette = []struct {
	name   string
	values [11]string
}{
	{"slate", [11]string{"#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a", "#020617"}},
	{"gray", [11]string{"#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827", "#030712"}},
	{"zinc", [11]string{"#fafafa", "#f4f4f5", "#e4e4e7", "#d4d4d8", "#a1a1aa", "#71717a", "#52525b", "#3f3f46", "#27272a", "#18181b", "#09090b"}},
	{"red", [11]string{"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d", "#450a0a"}},
	{"orange", [11]string{"#fff7ed", "#ffedd5", "#fed7aa", "#fdba74", "#fb923c", "#f97316", "#ea580c", "#c2410c", "#9a3412", "#7c2d12", "#431407"}},
	{"yellow", [11]string{"#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15", "#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12", "#422006"}},
	{"green", [11]string{"#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d", "#052e16"}},
	{"blue", [11]string{"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "#172554"}},
	{"indigo", [11]string{"#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81", "#1e1b4b"}},
	{"purple", [11]string{"#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc", "#a855f7", "#9333ea", "#7e22ce", "#6b21a8", "#581c87", "#3b0764"}},
}

func colorEntries() []Entry {
	entries := []Entry{
		{"inherit", "inherit"},
		{"current", "currentColor"},
		{"transparent", "transparent"},
		{"black", "#000"},
		{"white", "#fff"},
	}
	for _, p := range palette {
		for i, shade := range shades {
			entries = append(entries, Entry{Key: p.name + "-" + shade, Value: p.values[i]})
		}
	}
	return entries
}

func concat(parts ...[]Entry) []Entry {
	var out []Entry
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
