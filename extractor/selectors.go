package extractor

import "github.com/andybalholm/cascadia"

// Selectors are compiled once and shared; cascadia matchers are safe for
// concurrent use.
var (
	selTitle           = cascadia.MustCompile("title")
	selMetaDescription = cascadia.MustCompile(`meta[name="description"]`)
	selMetaRobots      = cascadia.MustCompile(`meta[name="robots"]`)
	selCanonical       = cascadia.MustCompile(`link[rel~="canonical"]`)
	selH1              = cascadia.MustCompile("h1")
	selImage           = cascadia.MustCompile("img")
	selAnchor          = cascadia.MustCompile("a[href]")

	// Structured-data markers.
	selJSONLD    = cascadia.MustCompile(`script[type="application/ld+json"]`)
	selMicrodata = cascadia.MustCompile("[itemscope]")
	selRDFa      = cascadia.MustCompile("[typeof]")
)
