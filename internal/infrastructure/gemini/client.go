package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
	"google.golang.org/api/option"
)

const systemPrompt = `You are a retail operations analyst at a fulfilment company.
You receive aggregate statistics from an inventory and sales dashboard:
units sold per department, storage volume per department, distinct transactions per hour of day,
and the distribution of basket sizes.

Rules:
- Use ONLY the numbers you are given. Never invent departments, hours or totals.
- Write 4-6 short bullet points in plain English, no markdown headers.
- Point out the busiest hours, the departments that dominate units versus storage volume,
  and whether baskets are mostly single-item or multi-item.
- If the data carries warnings (unmatched rows, missing values), mention the data quality issue once.`

type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// NewGeminiClient yangi Gemini AI client yaratish
func NewGeminiClient(apiKey string) (repository.InsightRepository, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash-exp")

	// Raqamlar bilan ishlash uchun past temperature
	model.SetTemperature(0.2)
	model.SetTopK(20)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(1024)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	return &geminiClient{
		client: client,
		model:  model,
		sem:    make(chan struct{}, 3), // bir vaqtda 3 ta so'rovdan oshirma
		delay:  350 * time.Millisecond, // minimal interval
	}, nil
}

// Summarize dashboard bo'yicha qisqa tahlil
func (g *geminiClient) Summarize(ctx context.Context, dashboard *entity.Dashboard) (string, error) {
	if dashboard == nil {
		return "", fmt.Errorf("no dashboard to summarize")
	}
	release := g.acquire()
	defer release()

	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(dashboard)))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}

	return extractText(resp), nil
}

// BuildPrompt dashboard raqamlarini matnga aylantirish
func BuildPrompt(d *entity.Dashboard) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dataset: %d line items, %d products, %d purchases.\n\n", d.LineCount, d.ProductCount, d.PurchaseCount))

	sb.WriteString("Units sold by department (descending):\n")
	for _, g := range d.ByDepartmentQuantity {
		sb.WriteString(fmt.Sprintf("- %s: %.0f\n", g.Department.Label(), g.Quantity))
	}

	sb.WriteString("\nStorage volume by department (cubic inches, descending):\n")
	for _, g := range d.ByDepartmentVolume {
		sb.WriteString(fmt.Sprintf("- %s: %.1f\n", g.Department.Label(), g.TotalVolume))
	}

	sb.WriteString("\nDistinct transactions per hour of day:\n")
	for _, h := range d.Hourly {
		label := "unknown"
		if h.Hour.Valid {
			label = fmt.Sprintf("%02d:00", h.Hour.Value)
		}
		sb.WriteString(fmt.Sprintf("- %s: %d\n", label, h.TransactionCount))
	}

	sizes := make(map[int]int)
	for _, b := range d.Baskets {
		sizes[b.Size]++
	}
	sb.WriteString("\nBasket sizes (items per purchase → number of purchases):\n")
	for size := 1; size <= 10; size++ {
		if n, ok := sizes[size]; ok {
			sb.WriteString(fmt.Sprintf("- %d: %d\n", size, n))
		}
	}
	larger := 0
	for size, n := range sizes {
		if size > 10 {
			larger += n
		}
	}
	if larger > 0 {
		sb.WriteString(fmt.Sprintf("- more than 10: %d\n", larger))
	}
	if d.MeanBasketSize.Valid {
		sb.WriteString(fmt.Sprintf("Average basket size: %.2f\n", d.MeanBasketSize.Value))
	}

	if len(d.Warnings) > 0 {
		sb.WriteString("\nData warnings:\n")
		for _, w := range d.Warnings {
			sb.WriteString("- " + w + "\n")
		}
	}
	return sb.String()
}

// extractText javobdan textni ajratib olish
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

func (g *geminiClient) acquire() func() {
	g.sem <- struct{}{}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	} else {
		if sleep := g.delay - now.Sub(g.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
		g.last = now
	}

	return func() {
		<-g.sem
	}
}

// Close client ni yopish
func (g *geminiClient) Close() error {
	return g.client.Close()
}
