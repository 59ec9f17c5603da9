package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shopdesk/internal/bom"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const parsePrompt = `Extract every purchasable line item from this bill or product list.
Reply with ONLY a JSON array, no prose, where each element is:
{"name": string, "quantity": int, "price": number, "size": string, "color": string, "sku": string, "category": string}
Use the per-unit selling price. Leave unknown fields as "" or 0.`

// ParseBillDocument sends a photographed or PDF bill to Gemini and turns
// the reply into candidate inventory rows. The model is treated as an
// opaque extraction service; everything it returns still goes through
// human review before touching the inventory.
func ParseBillDocument(ctx context.Context, content []byte, mimeType, apiKey string) ([]bom.CandidateItem, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: content},
		genai.Text(parsePrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	raw := printResponse(resp)
	items, err := decodeCandidates(raw)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// decodeCandidates tolerates the model wrapping its JSON in a code fence.
func decodeCandidates(raw string) ([]bom.CandidateItem, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var items []bom.CandidateItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("model reply was not a JSON item list: %w", err)
	}

	kept := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		if it.Quantity <= 0 {
			it.Quantity = 1
		}
		it.Selected = true
		kept = append(kept, it)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no items found in document")
	}
	return kept, nil
}
