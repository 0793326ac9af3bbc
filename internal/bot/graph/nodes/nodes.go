package nodes

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Addyshimla/splashark/internal/bot/graph/parsers"
	"github.com/Addyshimla/splashark/internal/bot/graph/prompts"
	"github.com/Addyshimla/splashark/internal/bot/image"
	"github.com/Addyshimla/splashark/internal/bot/model"
	errx "github.com/Addyshimla/splashark/internal/core/error"
	"github.com/Addyshimla/splashark/internal/faq"
	logx "github.com/Addyshimla/splashark/pkg/logger"
)

// Graph node names.
const (
	NodeClassifier       = "classifier"
	NodeChatResponder    = "chat_responder"
	NodePromptEnhancer   = "prompt_enhancer"
	NodeImageSynthesizer = "image_synthesizer"
	NodeCaptionGenerator = "caption_generator"
	NodeAggregator       = "aggregator"
)

// Degraded-result literals substituted when an external call fails.
const (
	FallbackCaption = "Check out this amazing creation! ✨"
	ApologyMessage  = "Sorry, I couldn't generate that image. Please try again in a moment."
)

// FallbackHashtags returns the fixed tag set used when caption generation
// fails. A fresh slice each call keeps the state single-owner.
func FallbackHashtags() []string {
	return []string{"#art", "#creative", "#amazing"}
}

// imageKeywords routes a message to the image pipeline when any of them
// appears as a substring of the lower-cased input.
var imageKeywords = []string{"image", "picture", "photo", "generate", "create", "draw", "make", "post"}

// NodeFunc is the shape of every workflow node: it receives the state by
// exclusive handoff, mutates it, and passes it on. It is an alias so node
// constructors plug straight into compose.InvokableLambda.
type NodeFunc = func(context.Context, *model.ChatState) (*model.ChatState, error)

// NewClassifierNode validates the input and computes the route. This is the
// only node allowed to fail the run: a blank input rejects the whole request
// before any external call is made.
func NewClassifierNode() NodeFunc {
	return func(ctx context.Context, st *model.ChatState) (*model.ChatState, error) {
		input := strings.TrimSpace(st.Input)
		if input == "" {
			return nil, errx.New(fmt.Errorf("input message is empty"), http.StatusBadRequest, "message cannot be empty")
		}

		switch st.Action {
		case model.ActionRegenerate:
			// Forces regeneration of a prior image request, bypassing keywords.
			st.Route = model.RouteImage
		case model.ActionEditCaption:
			st.Route = model.RouteEditCaptionOnly
		case model.ActionEditHashtags:
			st.Route = model.RouteEditHashtagsOnly
		default:
			if hasImageKeyword(input) {
				st.Route = model.RouteImage
			} else {
				st.Route = model.RouteChat
			}
		}

		logx.Debug().
			Str("node", NodeClassifier).
			Str("action", st.Action).
			Str("route", st.Route).
			Msg("Classified input")
		return st, nil
	}
}

func hasImageKeyword(input string) bool {
	lowered := strings.ToLower(input)
	for _, kw := range imageKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// NewChatResponderNode answers a plain chat message with the FAQ corpus
// embedded as system context. A failed model call degrades into an inline
// error string presented as the assistant's reply; it never fails the run.
func NewChatResponderNode(cm einomodel.BaseChatModel, modelName string, promptCfg model.PromptConfig, corpus faq.Corpus) NodeFunc {
	return func(ctx context.Context, st *model.ChatState) (*model.ChatState, error) {
		systemPrompt, err := prompts.RenderChatSystem(ctx, promptCfg, corpus)
		if err != nil {
			return nil, fmt.Errorf("render chat system prompt: %w", err)
		}

		resp, err := cm.Generate(ctx, []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(st.Input),
		})
		if err != nil {
			logx.Error().Err(err).Str("node", NodeChatResponder).Msg("chat model call failed")
			st.Err = err.Error()
			st.Output = fmt.Sprintf("Sorry, I couldn't process that right now: %v", err)
			return st, nil
		}

		recordUsage(ctx, NodeChatResponder, modelName, resp)
		st.Output = resp.Content
		return st, nil
	}
}

// NewPromptEnhancerNode rewrites a terse image request into a detailed
// generation prompt. On failure the original input is used unchanged.
func NewPromptEnhancerNode(cm einomodel.BaseChatModel, modelName string) NodeFunc {
	return func(ctx context.Context, st *model.ChatState) (*model.ChatState, error) {
		instruction, err := prompts.RenderEnhance(ctx, st.Input)
		if err != nil {
			return nil, fmt.Errorf("render enhance prompt: %w", err)
		}

		resp, err := cm.Generate(ctx, []*schema.Message{schema.UserMessage(instruction)})
		if err != nil {
			logx.Warn().Err(err).Str("node", NodePromptEnhancer).Msg("enhancement failed, falling back to raw input")
			st.EnhancedPrompt = st.Input
			st.Err = err.Error()
			return st, nil
		}

		recordUsage(ctx, NodePromptEnhancer, modelName, resp)
		// Passed through verbatim even if the model ignored the
		// no-commentary instruction.
		st.EnhancedPrompt = resp.Content
		return st, nil
	}
}

// NewImageSynthesizerNode generates one image from the enhanced prompt (or
// the raw input when enhancement produced nothing). Failure leaves ImageURL
// empty and records the reason.
func NewImageSynthesizerNode(gen image.Generator, modelName string) NodeFunc {
	return func(ctx context.Context, st *model.ChatState) (*model.ChatState, error) {
		prompt := st.EnhancedPrompt
		if strings.TrimSpace(prompt) == "" {
			prompt = st.Input
		}

		url, err := gen.Generate(ctx, prompt)
		if err != nil {
			logx.Error().Err(err).Str("node", NodeImageSynthesizer).Msg("image synthesis failed")
			st.ImageURL = ""
			st.Err = err.Error()
			return st, nil
		}

		recordImage(ctx, modelName)
		st.ImageURL = url
		return st, nil
	}
}

// NewCaptionGeneratorNode asks the chat model for a caption/hashtag JSON
// object and parses it. Any call or parse failure substitutes the fixed
// fallbacks; this node never fails the run.
func NewCaptionGeneratorNode(cm einomodel.BaseChatModel, modelName string) NodeFunc {
	return func(ctx context.Context, st *model.ChatState) (*model.ChatState, error) {
		subject := st.EnhancedPrompt
		if strings.TrimSpace(subject) == "" {
			subject = st.Input
		}

		instruction, err := prompts.RenderCaption(ctx, subject)
		if err != nil {
			return nil, fmt.Errorf("render caption prompt: %w", err)
		}

		resp, err := cm.Generate(ctx, []*schema.Message{schema.UserMessage(instruction)})
		if err != nil {
			logx.Warn().Err(err).Str("node", NodeCaptionGenerator).Msg("caption call failed, using fallbacks")
			st.Caption = FallbackCaption
			st.Hashtags = FallbackHashtags()
			st.Err = err.Error()
			return st, nil
		}
		recordUsage(ctx, NodeCaptionGenerator, modelName, resp)

		payload, err := parsers.ParseCaption(resp.Content)
		if err != nil {
			logx.Warn().Err(err).Str("node", NodeCaptionGenerator).Msg("caption parse failed, using fallbacks")
			st.Caption = FallbackCaption
			st.Hashtags = FallbackHashtags()
			st.Err = err.Error()
			return st, nil
		}

		st.Caption = payload.Caption
		if payload.Hashtags == nil {
			payload.Hashtags = []string{}
		}
		st.Hashtags = payload.Hashtags
		return st, nil
	}
}

// NewAggregatorNode converts per-route partial state into the single Output
// value. Image results are built sparsely, field by field; a missing image
// URL collapses the whole result into the apology string.
func NewAggregatorNode() NodeFunc {
	return func(ctx context.Context, st *model.ChatState) (*model.ChatState, error) {
		switch st.Route {
		case model.RouteChat:
			// Output already written by the chat responder.
		case model.RouteImage:
			if strings.TrimSpace(st.ImageURL) == "" {
				st.Output = ApologyMessage
				break
			}
			result := &model.ImageResult{ImageURL: st.ImageURL}
			if st.Caption != "" {
				result.Caption = st.Caption
			}
			if len(st.Hashtags) > 0 {
				result.Hashtags = st.Hashtags
			}
			if st.Err != "" {
				result.Error = st.Err
			}
			st.Output = result
		default:
			// Dead branch: unrouted routes pass through unchanged.
		}

		logx.Debug().Str("node", NodeAggregator).Str("route", st.Route).Msg("Aggregated final output")
		return st, nil
	}
}
