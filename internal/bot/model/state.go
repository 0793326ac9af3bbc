package model

// Caller-supplied actions. Anything else is treated as a plain chat turn.
const (
	ActionChat         = "chat"
	ActionRegenerate   = "regenerate"
	ActionEditCaption  = "edit_caption"
	ActionEditHashtags = "edit_hashtags"
)

// Routes computed by the classifier. Once set, a route is never re-derived.
const (
	RouteChat             = "chat"
	RouteImage            = "image"
	RouteEditCaptionOnly  = "edit_caption_only"
	RouteEditHashtagsOnly = "edit_hashtags_only"
)

// ChatState is the single mutable record threaded through the workflow graph
// by exclusive handoff: each node receives it, may add fields, and passes it
// on. Fields are only ever added, never removed; Output is written exactly
// once by the aggregator. A state lives for one traversal and is discarded
// once the caller has read Output.
type ChatState struct {
	Input      string
	DeviceType string
	Action     string
	EditData   map[string]any // reserved for edit flows, not read by any node

	Route          string
	EnhancedPrompt string
	ImageURL       string
	Caption        string
	Hashtags       []string

	// Err holds the most recent node-local failure message. Later failures
	// overwrite earlier ones; it is not an accumulating log.
	Err string

	// Output is either a plain string (chat replies, degraded results) or an
	// *ImageResult for successful image runs.
	Output any
}

// ImageResult is the structured output for the image route. Fields are
// omitted when absent rather than null-filled.
type ImageResult struct {
	ImageURL string   `json:"image_url,omitempty"`
	Caption  string   `json:"caption,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// CaptionPayload is the JSON object the caption model is instructed to emit.
type CaptionPayload struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}
