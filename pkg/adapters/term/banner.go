package term

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs an ASCII art banner for Scribe.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Indigo/Violet)
	s1 := termenv.String("                _ _          ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("  ___  ___ _ __(_) |__   ___ ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" / __|/ __| '__| | '_ \\ / _ \\").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" \\__ \\ (__| |  | | |_) |  __/").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" |___/\\___|_|  |_|_.__/ \\___|").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
