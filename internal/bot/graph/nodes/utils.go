package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Addyshimla/splashark/internal/bot/model"
	logx "github.com/Addyshimla/splashark/pkg/logger"
)

// ===== Small helpers to keep the node closures simple/readable =====

// recordUsage accumulates token cost for one chat-model call into the
// graph-local RunMetrics. Best-effort: outside a graph run (unit tests
// exercising a node directly) there is no local state and the call is a
// no-op.
func recordUsage(ctx context.Context, node, modelName string, out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	_ = compose.ProcessState(ctx, func(_ context.Context, m *model.RunMetrics) error {
		m.AddUsage(modelName, usage)
		logx.Debug().
			Str("node", node).
			Str("model", modelName).
			Int("prompt_tokens", usage.PromptTokens).
			Int("completion_tokens", usage.CompletionTokens).
			Int("total_tokens", usage.TotalTokens).
			Float64("run_cost_usd", m.TotalCostUSD).
			Msg("LLM usage")
		return nil
	})
}

// recordImage accumulates the flat per-image cost of one generation call.
func recordImage(ctx context.Context, modelName string) {
	_ = compose.ProcessState(ctx, func(_ context.Context, m *model.RunMetrics) error {
		m.AddImage(modelName)
		logx.Debug().
			Str("model", modelName).
			Float64("run_cost_usd", m.TotalCostUSD).
			Msg("Image usage")
		return nil
	})
}
