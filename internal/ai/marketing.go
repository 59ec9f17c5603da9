package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerateCaption asks the model for a short social-media caption for a
// product. Pure relay: prompt out, text back.
func GenerateCaption(ctx context.Context, productName, category string, price float64, apiKey string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	prompt := fmt.Sprintf(
		`Write a short, catchy social media caption (under 280 characters, with 2-3 hashtags) for a retail shop promoting this product:
Name: %s
Category: %s
Price: ₹%.2f
Reply with the caption only.`, productName, category, price)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate caption: %w", err)
	}
	return printResponse(resp), nil
}

// GenerateImage asks an image-capable model for a promotional picture and
// returns it base64-encoded. Some replies carry text instead of an image;
// that surfaces as an error the UI can show.
func GenerateImage(ctx context.Context, prompt, apiKey string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-exp")

	resp, err := model.GenerateContent(ctx, genai.Text(
		"Generate a clean, well-lit promotional product image for a small retail shop: "+prompt))
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				return base64.StdEncoding.EncodeToString(blob.Data), nil
			}
		}
	}
	return "", fmt.Errorf("model returned no image")
}
