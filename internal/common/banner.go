package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config) {
	version := GetVersion()
	build := GetBuild()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 888b    888 8888888888 888       888  .d8888b.`,
		` 8888b   888 888        888   o   888 d88P  Y88b`,
		` 88888b  888 888        888  d8b  888 Y88b.`,
		` 888Y88b 888 8888888    888 d888b 888  "Y888b.`,
		` 888 Y88b888 888        888d88888b888     "Y88b.`,
		` 888  Y88888 888        88888P Y88888       "888`,
		` 888   Y8888 888        8888P   Y8888 Y88b  d88P`,
		` 888    Y888 8888888888 888P     Y888  "Y8888P"  LENS`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  News-Driven Equity Analysis%s\n\n%s\n\n", textColor, banner.ColorReset, hr)

	kvPad := 14
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Environment", config.Environment},
		{"Service", serviceURL},
		{"Storage", config.Storage.Path},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "  %s%-*s%s %s\n", lineColor, kvPad, kv[0], banner.ColorReset, kv[1])
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
}
