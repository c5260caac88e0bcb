package constant

import (
	"sort"
	"strings"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
)

const (
	FieldPrompt   = "prompt"
	FieldImageUrl = "imageUrl"

	defaultNegativePrompt = "blurry, low quality, distorted, watermark, text artifacts, extra limbs"
)

// Tool is one generation endpoint: POST /api/tools/:slug.
type Tool struct {
	Slug          string
	Name          string
	Description   string
	Kind          entity.MediaKind
	Cost          int
	Fallback      string
	MinConfidence int
	Required      []string
	BuildInput    func(req *dto.GenerateRequest) map[string]interface{}
}

var tools = []Tool{
	{
		Slug:          "ai-image-generator",
		Name:          "AI Image Generator",
		Description:   "Fast text to image",
		Kind:          entity.MediaKindImage,
		Cost:          1,
		Fallback:      "black-forest-labs/flux-schnell",
		MinConfidence: 30,
		Required:      []string{FieldPrompt},
		BuildInput:    textToImage(""),
	},
	{
		Slug:          "flux-pro",
		Name:          "FLUX Pro",
		Description:   "High fidelity text to image",
		Kind:          entity.MediaKindImage,
		Cost:          3,
		Fallback:      "black-forest-labs/flux-1.1-pro",
		MinConfidence: 30,
		Required:      []string{FieldPrompt},
		BuildInput:    textToImage(""),
	},
	{
		Slug:          "sdxl",
		Name:          "Stable Diffusion XL",
		Description:   "Classic SDXL with negative prompt support",
		Kind:          entity.MediaKindImage,
		Cost:          1,
		Fallback:      "stability-ai/sdxl",
		MinConfidence: 30,
		Required:      []string{FieldPrompt},
		BuildInput:    diffusion("", true),
	},
	{
		Slug:          "logo-generator",
		Name:          "Logo Generator",
		Description:   "Flat vector logos",
		Kind:          entity.MediaKindImage,
		Cost:          2,
		Fallback:      "black-forest-labs/flux-schnell",
		MinConfidence: 30,
		Required:      []string{FieldPrompt},
		BuildInput:    textToImage("minimalist flat vector logo, centered, solid background, clean lines, "),
	},
	{
		Slug:          "anime-generator",
		Name:          "Anime Art",
		Description:   "Anime style illustrations",
		Kind:          entity.MediaKindImage,
		Cost:          2,
		Fallback:      "black-forest-labs/flux-schnell",
		MinConfidence: 25,
		Required:      []string{FieldPrompt},
		BuildInput:    diffusion("anime style, vibrant colors, detailed line art, ", true),
	},
	{
		Slug:          "sticker-maker",
		Name:          "Sticker Maker",
		Description:   "Die-cut stickers with transparent background",
		Kind:          entity.MediaKindImage,
		Cost:          2,
		Fallback:      "fofr/sticker-maker",
		MinConfidence: 30,
		Required:      []string{FieldPrompt},
		BuildInput:    textToImage("sticker, "),
	},
	{
		Slug:          "dalle-image",
		Name:          "DALL-E 3",
		Description:   "OpenAI image generation",
		Kind:          entity.MediaKindImage,
		Cost:          4,
		Fallback:      "openai/dall-e-3",
		MinConfidence: 30,
		Required:      []string{FieldPrompt},
		BuildInput: func(req *dto.GenerateRequest) map[string]interface{} {
			in := map[string]interface{}{"prompt": styled("", req)}
			if size := dalleSize(req.AspectRatio); size != "" {
				in["size"] = size
			}
			return in
		},
	},
	{
		Slug:          "background-remover",
		Name:          "Background Remover",
		Description:   "Remove the background of an image",
		Kind:          entity.MediaKindImage,
		Cost:          1,
		Fallback:      "cjwbw/rembg",
		MinConfidence: 30,
		Required:      []string{FieldImageUrl},
		BuildInput: func(req *dto.GenerateRequest) map[string]interface{} {
			return map[string]interface{}{"image": req.ImageUrl}
		},
	},
	{
		Slug:          "image-upscaler",
		Name:          "Image Upscaler",
		Description:   "Upscale an image up to 8x",
		Kind:          entity.MediaKindImage,
		Cost:          2,
		Fallback:      "nightmareai/real-esrgan",
		MinConfidence: 30,
		Required:      []string{FieldImageUrl},
		BuildInput: func(req *dto.GenerateRequest) map[string]interface{} {
			in := map[string]interface{}{"image": req.ImageUrl, "scale": 4}
			if req.Scale != nil {
				in["scale"] = *req.Scale
			}
			return in
		},
	},
	{
		Slug:          "text-to-video",
		Name:          "Text to Video",
		Description:   "Short clips from a prompt",
		Kind:          entity.MediaKindVideo,
		Cost:          10,
		Fallback:      "minimax/video-01",
		MinConfidence: 30,
		Required:      []string{FieldPrompt},
		BuildInput: func(req *dto.GenerateRequest) map[string]interface{} {
			in := map[string]interface{}{"prompt": styled("", req), "prompt_optimizer": true}
			if req.Duration != nil {
				in["duration"] = *req.Duration
			}
			return in
		},
	},
	{
		Slug:          "image-to-video",
		Name:          "Image to Video",
		Description:   "Animate a still image",
		Kind:          entity.MediaKindVideo,
		Cost:          8,
		Fallback:      "stability-ai/stable-video-diffusion",
		MinConfidence: 30,
		Required:      []string{FieldImageUrl},
		BuildInput: func(req *dto.GenerateRequest) map[string]interface{} {
			return map[string]interface{}{
				"input_image":       req.ImageUrl,
				"video_length":      "25_frames_with_svd_xt",
				"frames_per_second": 6,
				"motion_bucket_id":  127,
				"sizing_strategy":   "maintain_aspect_ratio",
			}
		},
	},
}

var toolIndex = func() map[string]Tool {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		m[t.Slug] = t
	}
	return m
}()

// FindTool accepts "x", "tools/x" and "/api/tools/x".
func FindTool(slug string) (Tool, bool) {
	s := strings.Trim(slug, "/")
	s = strings.TrimPrefix(s, "api/")
	s = strings.TrimPrefix(s, "tools/")
	t, ok := toolIndex[s]
	return t, ok
}

// Tools returns every tool, sorted by slug.
func Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// MissingFields lists required fields absent from req.
func (t Tool) MissingFields(req *dto.GenerateRequest) []string {
	var missing []string
	for _, f := range t.Required {
		switch f {
		case FieldPrompt:
			if strings.TrimSpace(req.Prompt) == "" {
				missing = append(missing, f)
			}
		case FieldImageUrl:
			if strings.TrimSpace(req.ImageUrl) == "" {
				missing = append(missing, f)
			}
		}
	}
	return missing
}

func styled(prefix string, req *dto.GenerateRequest) string {
	prompt := prefix + strings.TrimSpace(req.Prompt)
	if req.Style != "" {
		prompt += ", " + req.Style + " style"
	}
	return prompt
}

func textToImage(prefix string) func(req *dto.GenerateRequest) map[string]interface{} {
	return func(req *dto.GenerateRequest) map[string]interface{} {
		in := map[string]interface{}{
			"prompt":        styled(prefix, req),
			"output_format": "png",
			"aspect_ratio":  "1:1",
		}
		if req.AspectRatio != "" {
			in["aspect_ratio"] = req.AspectRatio
		}
		if req.NumSteps != nil {
			in["num_inference_steps"] = *req.NumSteps
		}
		if req.Seed != nil {
			in["seed"] = *req.Seed
		}
		return in
	}
}

func diffusion(prefix string, negative bool) func(req *dto.GenerateRequest) map[string]interface{} {
	return func(req *dto.GenerateRequest) map[string]interface{} {
		in := map[string]interface{}{
			"prompt":         styled(prefix, req),
			"width":          1024,
			"height":         1024,
			"guidance_scale": 7.5,
		}
		if negative {
			np := defaultNegativePrompt
			if req.NegativePrompt != "" {
				np = req.NegativePrompt + ", " + np
			}
			in["negative_prompt"] = np
		}
		if req.NumSteps != nil {
			in["num_inference_steps"] = *req.NumSteps
		}
		if req.Guidance != nil {
			in["guidance_scale"] = *req.Guidance
		}
		if req.Seed != nil {
			in["seed"] = *req.Seed
		}
		return in
	}
}

func dalleSize(aspect string) string {
	switch aspect {
	case "16:9", "3:2", "4:3":
		return "1792x1024"
	case "9:16", "2:3", "3:4":
		return "1024x1792"
	case "1:1":
		return "1024x1024"
	}
	return ""
}
