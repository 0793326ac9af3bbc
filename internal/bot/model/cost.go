package model

import (
	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// defaultPricing provides hardcoded USD pricing per 1M text tokens.
var defaultPricing = map[string]Pricing{
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// defaultImagePricing provides hardcoded USD cost per generated image.
var defaultImagePricing = map[string]float64{
	"dall-e-3": 0.08, // 1024x1024 hd
	"dall-e-2": 0.02,
}

// CostEnabled returns whether to compute/log cost.
func CostEnabled() bool {
	return true
}

// ResolvePricing returns hardcoded pricing for a chat model, zero when unknown.
func ResolvePricing(model string) Pricing {
	p, ok := defaultPricing[model]
	if !ok {
		return Pricing{}
	}
	return p
}

// ResolveImagePricing returns the per-image USD cost for a model, zero when unknown.
func ResolveImagePricing(model string) float64 {
	return defaultImagePricing[model]
}

// ComputeCost converts token usage to USD cost using per-1M Pricing.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}

// RunMetrics is the graph-local state for one workflow run. It is touched
// only inside Eino state handlers and compose.ProcessState callbacks, which
// serialize access, so no locking is needed.
type RunMetrics struct {
	ModelCalls   int
	ImageCalls   int
	TotalCostUSD float64
}

// AddUsage accumulates the cost of one chat-model call.
func (m *RunMetrics) AddUsage(model string, usage *schema.TokenUsage) {
	m.ModelCalls++
	if !CostEnabled() || usage == nil {
		return
	}
	_, _, total := ComputeCost(usage, ResolvePricing(model))
	m.TotalCostUSD += total
}

// AddImage accumulates the cost of one image-generation call.
func (m *RunMetrics) AddImage(model string) {
	m.ImageCalls++
	if !CostEnabled() {
		return
	}
	m.TotalCostUSD += ResolveImagePricing(model)
}
