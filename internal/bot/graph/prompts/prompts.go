package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/Addyshimla/splashark/internal/bot/model"
	"github.com/Addyshimla/splashark/internal/faq"
)

//go:embed template/chat_system.txt
var chatSystemPrompt string

//go:embed template/enhance_prompt.txt
var enhancePrompt string

//go:embed template/caption_prompt.txt
var captionPrompt string

// render substitutes known tokens with a replacer (FAQ answers and user
// input may contain braces, so f-string formatting is avoided) and then
// wraps the result in an Eino prompt component so prompt callbacks fire.
func render(ctx context.Context, template string, pairs ...string) (string, error) {
	content := strings.NewReplacer(pairs...).Replace(template)

	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("rendered_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"rendered_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderChatSystem builds the chat responder system prompt with the full FAQ
// corpus embedded in corpus order.
func RenderChatSystem(ctx context.Context, cfg model.PromptConfig, corpus faq.Corpus) (string, error) {
	return render(ctx, chatSystemPrompt,
		"{platform_name}", cfg.PlatformName,
		"{faqs}", corpus.Render(),
	)
}

// RenderEnhance builds the prompt-enhancer instruction around the raw request.
func RenderEnhance(ctx context.Context, input string) (string, error) {
	return render(ctx, enhancePrompt, "{input}", input)
}

// RenderCaption builds the caption/hashtag instruction around the image prompt.
func RenderCaption(ctx context.Context, input string) (string, error) {
	return render(ctx, captionPrompt, "{input}", input)
}
