package model

// ================ Config ================

// ChatModelConfig drives the single chat model shared by the responder,
// enhancer and caption nodes.
type ChatModelConfig struct {
	Model       string  `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.7"`
}

// ImageModelConfig drives the image-generation API call. One square
// high-quality image per request.
type ImageModelConfig struct {
	Model   string `envconfig:"IMAGE_MODEL" default:"dall-e-3"`
	Size    string `envconfig:"IMAGE_SIZE" default:"1024x1024"`
	Quality string `envconfig:"IMAGE_QUALITY" default:"hd"`
}

// PromptConfig carries the platform identity rendered into prompts.
type PromptConfig struct {
	PlatformName string `envconfig:"PROMPT_PLATFORM_NAME" default:"SplashArk"`
}
