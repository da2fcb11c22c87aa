package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/depositdefender/internal/assess"
)

const defaultBaseURL = "https://api.anthropic.com/v1"

// maxTokens covers a single "severity | notes" line with room for a chatty model.
const maxTokens = 256

type Assessor struct {
	apiKey  string
	model   string
	baseURL string
}

func NewAssessor(apiKey, model string) *Assessor {
	return &Assessor{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
	}
}

func (a *Assessor) client() *anthropic.Client {
	return anthropic.NewClient(a.apiKey, anthropic.WithBaseURL(a.baseURL))
}

// buildMessages constructs the Messages API payload for one photo.
func buildMessages(imageData []byte, mimeType, itemLabel string) []anthropic.Message {
	return []anthropic.Message{{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(anthropic.MessageContentSource{
				Type:      anthropic.MessagesContentSourceTypeBase64,
				MediaType: normaliseMIME(mimeType),
				Data:      base64.StdEncoding.EncodeToString(imageData),
			}),
			anthropic.NewTextMessageContent(assess.Prompt(itemLabel)),
		},
	}}
}

func (a *Assessor) Assess(ctx context.Context, r io.Reader, mimeType, itemLabel string) (*assess.Assessment, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := a.client().CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages:  buildMessages(imageData, mimeType, itemLabel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	return assess.ParseResponse(resp.GetFirstContentText()), nil
}

// normaliseMIME maps types the API does not accept to image/jpeg; processed
// photos are always JPEG anyway.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
