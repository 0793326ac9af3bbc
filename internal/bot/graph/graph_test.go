package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Addyshimla/splashark/internal/bot/model"
	errx "github.com/Addyshimla/splashark/internal/core/error"
	"github.com/Addyshimla/splashark/internal/faq"
)

// scriptedChatModel dispatches on the instruction embedded in the user
// message, so one fake serves the responder, enhancer and caption nodes.
type scriptedChatModel struct {
	mu sync.Mutex

	chatReply    string
	enhanceReply string
	captionReply string
	chatErr      error
	enhanceErr   error
	captionErr   error

	systemPrompts []string
}

func (s *scriptedChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user string
	for _, m := range in {
		if m == nil {
			continue
		}
		if m.Role == schema.System {
			s.systemPrompts = append(s.systemPrompts, m.Content)
		}
		if m.Role == schema.User {
			user = m.Content
		}
	}

	switch {
	case strings.Contains(user, "Rewrite the following image request"):
		if s.enhanceErr != nil {
			return nil, s.enhanceErr
		}
		return schema.AssistantMessage(s.enhanceReply, nil), nil
	case strings.Contains(user, "JSON object"):
		if s.captionErr != nil {
			return nil, s.captionErr
		}
		return schema.AssistantMessage(s.captionReply, nil), nil
	default:
		if s.chatErr != nil {
			return nil, s.chatErr
		}
		return schema.AssistantMessage(s.chatReply, nil), nil
	}
}

func (s *scriptedChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type stubGenerator struct {
	url string
	err error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.url, nil
}

func buildTestGraph(t *testing.T, cm *scriptedChatModel, gen *stubGenerator) Runner {
	t.Helper()

	runnable, err := BuildGraph(context.Background(), &GraphConfig{
		ChatModel:      cm,
		ChatModelName:  "gemini-2.5-flash",
		ImageGenerator: gen,
		ImageModelName: "dall-e-3",
		Prompt:         model.PromptConfig{PlatformName: "SplashArk"},
		Corpus:         faq.Seed(),
	})
	require.NoError(t, err)
	return &graphRunner{runnable: runnable}
}

func TestChatFlow(t *testing.T) {
	cm := &scriptedChatModel{chatReply: "Go to profile > Update password."}
	runner := buildTestGraph(t, cm, &stubGenerator{url: "unused"})

	st, err := runner.Invoke(context.Background(), &model.ChatState{
		Input:  "How do I update my password?",
		Action: model.ActionChat,
	})
	require.NoError(t, err)

	assert.Equal(t, model.RouteChat, st.Route)
	assert.Equal(t, "Go to profile > Update password.", st.Output)

	// the chat system prompt embeds the full FAQ corpus in order
	require.Len(t, cm.systemPrompts, 1)
	assert.Equal(t, len(faq.Seed()), strings.Count(cm.systemPrompts[0], " – "))
	assert.Less(t,
		strings.Index(cm.systemPrompts[0], "How do I update my password?"),
		strings.Index(cm.systemPrompts[0], "What is a reel?"),
	)
}

func TestImageFlow(t *testing.T) {
	cm := &scriptedChatModel{
		enhanceReply: "A photorealistic golden retriever, warm sunset lighting",
		captionReply: `{"caption": "Sunset pup", "hashtags": ["#dog", "#sunset", "#goldenhour", "#cute", "#pets"]}`,
	}
	runner := buildTestGraph(t, cm, &stubGenerator{url: "https://img.example/dog.png"})

	st, err := runner.Invoke(context.Background(), &model.ChatState{
		Input:  "create an image of a dog",
		Action: model.ActionChat,
	})
	require.NoError(t, err)

	assert.Equal(t, model.RouteImage, st.Route)
	assert.Equal(t, "A photorealistic golden retriever, warm sunset lighting", st.EnhancedPrompt)

	result, ok := st.Output.(*model.ImageResult)
	require.True(t, ok, "image route must produce a structured result, got %T", st.Output)
	assert.Equal(t, "https://img.example/dog.png", result.ImageURL)
	assert.Equal(t, "Sunset pup", result.Caption)
	assert.Len(t, result.Hashtags, 5)
	assert.Empty(t, result.Error)
}

func TestImageFlowSynthesisFailure(t *testing.T) {
	cm := &scriptedChatModel{
		enhanceReply: "detailed prompt",
		captionReply: `{"caption": "Sunset pup", "hashtags": ["#dog"]}`,
	}
	runner := buildTestGraph(t, cm, &stubGenerator{err: fmt.Errorf("image API down")})

	st, err := runner.Invoke(context.Background(), &model.ChatState{
		Input:  "create an image of a dog",
		Action: model.ActionChat,
	})
	require.NoError(t, err, "a failed synthesis degrades, it does not fail the run")

	// no URL collapses the whole result into the plain apology string
	assert.Equal(t, "Sorry, I couldn't generate that image. Please try again in a moment.", st.Output)
}

func TestRegenerateForcesImageRoute(t *testing.T) {
	cm := &scriptedChatModel{
		enhanceReply: "detailed prompt",
		captionReply: `{"caption": "c", "hashtags": ["#a", "#b", "#c", "#d", "#e"]}`,
	}
	runner := buildTestGraph(t, cm, &stubGenerator{url: "https://img.example/x.png"})

	st, err := runner.Invoke(context.Background(), &model.ChatState{
		Input:  "hello",
		Action: model.ActionRegenerate,
	})
	require.NoError(t, err)

	assert.Equal(t, model.RouteImage, st.Route)
	_, ok := st.Output.(*model.ImageResult)
	assert.True(t, ok)
}

func TestBlankInputRejectsRun(t *testing.T) {
	runner := buildTestGraph(t, &scriptedChatModel{}, &stubGenerator{})

	_, err := runner.Invoke(context.Background(), &model.ChatState{Input: "   ", Action: model.ActionChat})
	require.Error(t, err)

	var appErr *errx.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestEditRoutesAreUnimplemented(t *testing.T) {
	runner := buildTestGraph(t, &scriptedChatModel{}, &stubGenerator{})

	for _, action := range []string{model.ActionEditCaption, model.ActionEditHashtags} {
		_, err := runner.Invoke(context.Background(), &model.ChatState{Input: "hello", Action: action})
		require.Error(t, err, "action %s", action)

		var appErr *errx.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusNotImplemented, appErr.Status)
	}
}

func TestDeterministicRunsAreIdempotent(t *testing.T) {
	newRunner := func() Runner {
		return buildTestGraph(t, &scriptedChatModel{
			enhanceReply: "detailed prompt",
			captionReply: `{"caption": "Sunset pup", "hashtags": ["#dog", "#sunset", "#goldenhour", "#cute", "#pets"]}`,
		}, &stubGenerator{url: "https://img.example/dog.png"})
	}

	first, err := newRunner().Invoke(context.Background(), &model.ChatState{Input: "create an image of a dog", Action: model.ActionChat})
	require.NoError(t, err)
	second, err := newRunner().Invoke(context.Background(), &model.ChatState{Input: "create an image of a dog", Action: model.ActionChat})
	require.NoError(t, err)

	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.Route, second.Route)
	assert.Equal(t, first.EnhancedPrompt, second.EnhancedPrompt)
}

func TestBuildGraphValidatesConfig(t *testing.T) {
	ctx := context.Background()

	_, err := BuildGraph(ctx, nil)
	require.Error(t, err)

	_, err = BuildGraph(ctx, &GraphConfig{})
	require.Error(t, err)

	_, err = BuildGraph(ctx, &GraphConfig{ChatModel: &scriptedChatModel{}, ImageGenerator: &stubGenerator{}})
	require.Error(t, err, "empty corpus must be rejected")
}
