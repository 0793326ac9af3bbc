package graph

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino/compose"

	"github.com/Addyshimla/splashark/internal/bot/graph/nodes"
	"github.com/Addyshimla/splashark/internal/bot/graph/observers"
	"github.com/Addyshimla/splashark/internal/bot/image"
	"github.com/Addyshimla/splashark/internal/bot/model"
	errx "github.com/Addyshimla/splashark/internal/core/error"
	"github.com/Addyshimla/splashark/internal/faq"
	logx "github.com/Addyshimla/splashark/pkg/logger"

	einomodel "github.com/cloudwego/eino/components/model"
)

// Runner executes one synchronous traversal of the compiled workflow graph.
// The returned state is the same value the caller passed in, with Output
// populated by the aggregator.
type Runner interface {
	Invoke(ctx context.Context, st *model.ChatState) (*model.ChatState, error)
}

// Config holds everything needed to compose the full workflow end-to-end.
// This is a convenience layer over GraphConfig that also constructs the chat
// model and the image generator from credentials.
type Config struct {
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     model.ChatModelConfig
	ImageModel    model.ImageModelConfig
	Prompt        model.PromptConfig
	Corpus        faq.Corpus
}

// GraphConfig holds the fully-constructed collaborators the graph needs.
// Tests substitute deterministic fakes here.
type GraphConfig struct {
	ChatModel      einomodel.BaseChatModel
	ChatModelName  string
	ImageGenerator image.Generator
	ImageModelName string
	Prompt         model.PromptConfig
	Corpus         faq.Corpus
}

// GraphBuilder handles the construction of the workflow graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[*model.ChatState, *model.ChatState]
}

type graphRunner struct {
	runnable compose.Runnable[*model.ChatState, *model.ChatState]
}

func (r *graphRunner) Invoke(ctx context.Context, st *model.ChatState) (*model.ChatState, error) {
	return r.runnable.Invoke(ctx, st, compose.WithCallbacks(observers.NewGraphCallbacks()))
}

// BuildChatGraph constructs the chat model and image generator, builds the
// graph, and returns a Runner.
func BuildChatGraph(ctx context.Context, cfg Config) (Runner, error) {
	if len(cfg.Corpus) == 0 {
		return nil, fmt.Errorf("FAQ corpus is empty")
	}

	chatModel, err := nodes.NewChatModel(ctx, nodes.ChatModelConfig{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Config:  &cfg.ChatModel,
	})
	if err != nil {
		return nil, err
	}

	generator := image.NewDALLEGenerator(image.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.ImageModel,
	})

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModel:      chatModel,
		ChatModelName:  cfg.ChatModel.Model,
		ImageGenerator: generator,
		ImageModelName: cfg.ImageModel.Model,
		Prompt:         cfg.Prompt,
		Corpus:         cfg.Corpus,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Workflow graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and compiles the workflow graph from ready-made
// collaborators.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[*model.ChatState, *model.ChatState], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModel == nil {
		return nil, fmt.Errorf("chat model is not initialized")
	}
	if config.ImageGenerator == nil {
		return nil, fmt.Errorf("image generator is not initialized")
	}
	if len(config.Corpus) == 0 {
		return nil, fmt.Errorf("FAQ corpus is empty")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[*model.ChatState, *model.ChatState](
			compose.WithGenLocalState(func(ctx context.Context) *model.RunMetrics {
				return &model.RunMetrics{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph.
func (b *GraphBuilder) addNodes() {
	cfg := b.config

	b.graph.AddLambdaNode(nodes.NodeClassifier,
		compose.InvokableLambda(nodes.NewClassifierNode()),
	)

	b.graph.AddLambdaNode(nodes.NodeChatResponder,
		compose.InvokableLambda(nodes.NewChatResponderNode(cfg.ChatModel, cfg.ChatModelName, cfg.Prompt, cfg.Corpus)),
	)

	b.graph.AddLambdaNode(nodes.NodePromptEnhancer,
		compose.InvokableLambda(nodes.NewPromptEnhancerNode(cfg.ChatModel, cfg.ChatModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeImageSynthesizer,
		compose.InvokableLambda(nodes.NewImageSynthesizerNode(cfg.ImageGenerator, cfg.ImageModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeCaptionGenerator,
		compose.InvokableLambda(nodes.NewCaptionGeneratorNode(cfg.ChatModel, cfg.ChatModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeAggregator,
		compose.InvokableLambda(nodes.NewAggregatorNode()),
		compose.WithStatePostHandler(func(ctx context.Context, st *model.ChatState, m *model.RunMetrics) (*model.ChatState, error) {
			logx.Debug().
				Int("model_calls", m.ModelCalls).
				Int("image_calls", m.ImageCalls).
				Float64("total_cost_usd", m.TotalCostUSD).
				Msg("Workflow run finished")
			return st, nil
		}),
	)
}

// addEdges creates the unconditional flow connections between nodes.
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeClassifier},
		{nodes.NodeChatResponder, nodes.NodeAggregator},
		{nodes.NodePromptEnhancer, nodes.NodeImageSynthesizer},
		{nodes.NodeImageSynthesizer, nodes.NodeCaptionGenerator},
		{nodes.NodeCaptionGenerator, nodes.NodeAggregator},
		{nodes.NodeAggregator, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the single conditional edge out of the classifier.
func (b *GraphBuilder) addBranches() error {
	routeBranch := compose.NewGraphBranch(
		NewRouteCondition(),
		map[string]bool{
			nodes.NodeChatResponder:  true,
			nodes.NodePromptEnhancer: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeClassifier, routeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding route branch")
		return fmt.Errorf("error adding route branch: %w", err)
	}

	return nil
}

// NewRouteCondition selects the next node from the computed route. The edit
// routes are produced by the classifier but have no outgoing edges yet;
// rather than guessing their behavior, they fail the run explicitly.
func NewRouteCondition() func(context.Context, *model.ChatState) (string, error) {
	return func(ctx context.Context, st *model.ChatState) (string, error) {
		switch st.Route {
		case model.RouteChat:
			return nodes.NodeChatResponder, nil
		case model.RouteEditCaptionOnly, model.RouteEditHashtagsOnly:
			logx.Warn().Str("route", st.Route).Msg("Unimplemented route requested")
			return "", errx.New(
				fmt.Errorf("route %q has no outgoing edges", st.Route),
				http.StatusNotImplemented,
				"route not implemented",
			)
		default:
			return nodes.NodePromptEnhancer, nil
		}
	}
}

// compile finalizes and compiles the graph. The traversal is depth-one with
// no loops, so the default step ceiling is more than enough.
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.ChatState, *model.ChatState], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
