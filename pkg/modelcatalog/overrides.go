package modelcatalog

import "strings"

// DefaultOverrides pins the tools whose model choice must not drift with the catalog.
var DefaultOverrides = map[string]string{
	"ai-image-generator":  "black-forest-labs/flux-schnell",
	"flux-pro":            "black-forest-labs/flux-1.1-pro",
	"sdxl":                "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b",
	"background-remover":  "cjwbw/rembg:fb8af171cfa1616ddcf1242c093f9c46bcada5ad4cf6f2fbe8b81b330ec5c003",
	"image-upscaler":      "nightmareai/real-esrgan:42fed1c4974146d4d2414e2be2c5277c7fcf05fcc3a73abf41610695738c1d7b",
	"text-to-video":       "minimax/video-01",
	"image-to-video":      "stability-ai/stable-video-diffusion:3f0457e4619daac51203dedb472816fd4af51f3149fa7a9e0b5ffcf1b8172438",
	"dalle-image":         "openai/dall-e-3",
	"tools/sticker-maker": "fofr/sticker-maker",
}

// Overrides is a static slug → identifier table.
type Overrides map[string]string

// Lookup tries the slug as given, then without its route prefix, then with "tools/" in front.
func (o Overrides) Lookup(slug string) (string, bool) {
	if id, ok := o[slug]; ok {
		return id, true
	}
	bare := StripPrefix(slug)
	if id, ok := o[bare]; ok {
		return id, true
	}
	if id, ok := o["tools/"+bare]; ok {
		return id, true
	}
	return "", false
}

// StripPrefix turns "/api/tools/x", "tools/x" and "x" into "x".
func StripPrefix(slug string) string {
	s := strings.Trim(strings.TrimSpace(slug), "/")
	s = strings.TrimPrefix(s, "api/")
	s = strings.TrimPrefix(s, "tools/")
	return s
}
