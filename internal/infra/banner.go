package infra

import (
	"fmt"
	"strings"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// PrintBanner displays the startup banner with the active alert mode.
func PrintBanner(cfg *Config) {
	version := cfg.App.Version

	color := ColorGreen
	alertMode := "THRESHOLD RULES ONLY"
	if cfg.Alerts.Simulate {
		color = ColorYellow
		alertMode = "SIMULATED (DEMO DATA)"
	}

	fmt.Println()
	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#              🌐 Crypto Weather Nexus                    #%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#   FEED:    %-36s #%s\n", color, shortFeedURL(cfg.Feed.URL), ColorReset)
	fmt.Printf("%s#   ALERTS:  %-36s #%s\n", color, alertMode, ColorReset)
	fmt.Printf("%s#   VERSION: %-36s #%s\n", color, version, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Println()
}

func shortFeedURL(url string) string {
	url = strings.TrimPrefix(url, "wss://")
	url = strings.TrimPrefix(url, "ws://")
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	return url
}
