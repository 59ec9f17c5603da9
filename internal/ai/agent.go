package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shopdesk/internal/billing"
	"shopdesk/internal/database"
	"shopdesk/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Action is a structured instruction the host UI interprets after showing
// the reply text: jump to a screen, or open a freshly created bill.
type Action struct {
	Type      string `json:"type"` // "navigate" or "create_bill"
	Target    string `json:"target,omitempty"`
	InvoiceID uint   `json:"invoice_id,omitempty"`
}

// Reply is what the assistant endpoint returns.
type Reply struct {
	Text   string  `json:"text"`
	Action *Action `json:"action,omitempty"`
}

// maxToolRounds caps back-and-forth with the model per request.
const maxToolRounds = 4

var screens = map[string]bool{
	"dashboard": true, "billing": true, "inventory": true,
	"customers": true, "reports": true, "settings": true,
}

// RunAgent forwards the shop owner's message to Gemini with this shop's
// tools attached and relays the reply. Tool calls run against the live
// database, scoped to userID; create_bill goes through the same
// transactional path as the checkout screen.
func RunAgent(ctx context.Context, userID uint, userMessage string, apiKey string) (*Reply, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the Shopdesk assistant for a retail shop owner.

RULES:
1. STOCK/PRICE questions: call 'check_inventory' and read the JSON to answer. Do NOT say you cannot see the inventory.
2. CUSTOMER questions (dues, purchase history): call 'check_customers'.
3. SALES/REVENUE questions: call 'get_sales_report'.
4. When the user asks to bill or sell items (e.g. "make a bill for 2 shirts for Ravi"), call 'create_bill' with the item names and quantities. Match item names against the inventory; call 'check_inventory' first if unsure of exact names.
5. When the user asks to open or go to a screen, call 'navigate'.
6. Answer briefly, in the user's language.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full inventory list. Use this to find ANY product details like ID, Name, Price, Stock or GST rate.",
				},
				{
					Name:        "check_customers",
					Description: "Get the customer list with phone numbers, total purchases and outstanding dues.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue, bill count and dues for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "create_bill",
					Description: "Create an invoice for items from the inventory. Items are matched by name.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"item_names": {
								Type:        genai.TypeArray,
								Items:       &genai.Schema{Type: genai.TypeString},
								Description: "Inventory item names, one per line of the bill",
							},
							"quantities": {
								Type:        genai.TypeArray,
								Items:       &genai.Schema{Type: genai.TypeInteger},
								Description: "Quantity per item, same order as item_names",
							},
							"customer_name": {Type: genai.TypeString, Description: "Customer name, if mentioned"},
							"payment_mode":  {Type: genai.TypeString, Description: "cash, card, online or due. Default cash."},
						},
						Required: []string{"item_names", "quantities"},
					},
				},
				{
					Name:        "navigate",
					Description: "Open a screen of the app for the user.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"screen": {Type: genai.TypeString, Description: "dashboard, billing, inventory, customers, reports or settings"},
						},
						Required: []string{"screen"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return nil, err
	}

	reply := &Reply{}
	for round := 0; round < maxToolRounds; round++ {
		funcCall, ok := firstFunctionCall(resp)
		if !ok {
			break
		}

		result, action := dispatchTool(userID, funcCall)
		if action != nil {
			reply.Action = action
		}

		resp, err = session.SendMessage(ctx, genai.FunctionResponse{
			Name:     funcCall.Name,
			Response: result,
		})
		if err != nil {
			return nil, err
		}
	}

	reply.Text = printResponse(resp)
	return reply, nil
}

func firstFunctionCall(resp *genai.GenerateContentResponse) (genai.FunctionCall, bool) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return genai.FunctionCall{}, false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if fc, ok := part.(genai.FunctionCall); ok {
			return fc, true
		}
	}
	return genai.FunctionCall{}, false
}

// dispatchTool executes one tool call and returns the payload to feed
// back to the model, plus an optional UI action.
func dispatchTool(userID uint, funcCall genai.FunctionCall) (map[string]interface{}, *Action) {
	switch funcCall.Name {
	case "check_inventory":
		return executeCheckInventory(userID), nil
	case "check_customers":
		return executeCheckCustomers(userID), nil
	case "get_sales_report":
		return executeSalesReport(userID, funcCall.Args), nil
	case "create_bill":
		return executeCreateBill(userID, funcCall.Args)
	case "navigate":
		screen, _ := funcCall.Args["screen"].(string)
		if !screens[screen] {
			return map[string]interface{}{"status": "unknown screen: " + screen}, nil
		}
		return map[string]interface{}{"status": "opening " + screen},
			&Action{Type: "navigate", Target: screen}
	}
	return map[string]interface{}{"status": "unknown tool"}, nil
}

func executeCheckInventory(userID uint) map[string]interface{} {
	var items []models.InventoryItem
	database.DB.Where("user_id = ?", userID).Find(&items)

	type simpleItem struct {
		ID      uint    `json:"id"`
		Name    string  `json:"name"`
		Stock   int     `json:"stock"`
		Price   float64 `json:"price"`
		GSTRate float64 `json:"gst_rate"`
	}
	var list []simpleItem
	for _, it := range items {
		list = append(list, simpleItem{ID: it.ID, Name: it.Name, Stock: it.Quantity, Price: it.Price, GSTRate: it.GSTRate})
	}
	jsonBytes, _ := json.Marshal(list)
	return map[string]interface{}{"inventory": string(jsonBytes)}
}

func executeCheckCustomers(userID uint) map[string]interface{} {
	var customers []models.Customer
	database.DB.Where("user_id = ?", userID).Find(&customers)

	type simpleCustomer struct {
		ID        uint    `json:"id"`
		Name      string  `json:"name"`
		Phone     string  `json:"phone"`
		Purchases float64 `json:"total_purchases"`
		Dues      float64 `json:"total_dues"`
	}
	var list []simpleCustomer
	for _, cu := range customers {
		list = append(list, simpleCustomer{ID: cu.ID, Name: cu.Name, Phone: cu.Phone, Purchases: cu.TotalPurchases, Dues: cu.TotalDues})
	}
	jsonBytes, _ := json.Marshal(list)
	return map[string]interface{}{"customers": string(jsonBytes)}
}

func executeSalesReport(userID uint, args map[string]interface{}) map[string]interface{} {
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return map[string]interface{}{"error": "dates must be YYYY-MM-DD"}
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(userID, start, end)
	if err != nil {
		return map[string]interface{}{"error": "failed to calculate sales"}
	}
	return map[string]interface{}{
		"revenue":    report.TotalRevenue,
		"bill_count": report.TotalCount,
		"dues":       report.TotalDues,
	}
}

// executeCreateBill resolves item names against the inventory and runs
// the same transactional billing path as the checkout screen.
func executeCreateBill(userID uint, args map[string]interface{}) (map[string]interface{}, *Action) {
	names, _ := args["item_names"].([]interface{})
	qtys, _ := args["quantities"].([]interface{})
	if len(names) == 0 || len(names) != len(qtys) {
		return map[string]interface{}{"error": "item_names and quantities must be non-empty and the same length"}, nil
	}

	var lines []billing.Line
	for i, n := range names {
		name, _ := n.(string)
		qty := 1
		if f, ok := qtys[i].(float64); ok && f > 0 {
			qty = int(f)
		}

		var item models.InventoryItem
		err := database.DB.Where("user_id = ? AND name LIKE ?", userID, "%"+strings.TrimSpace(name)+"%").
			First(&item).Error
		if err != nil {
			return map[string]interface{}{"error": fmt.Sprintf("no inventory item matching %q", name)}, nil
		}

		rate := item.GSTRate
		lines = append(lines, billing.Line{
			ItemID:    &item.ID,
			Name:      item.Name,
			Quantity:  qty,
			UnitPrice: item.Price,
			TaxRate:   &rate,
		})
	}

	customerName, _ := args["customer_name"].(string)
	paymentMode, _ := args["payment_mode"].(string)

	invoice, err := billing.CreateInvoice(database.DB, userID, billing.CreateInvoiceInput{
		CustomerName: customerName,
		Lines:        lines,
		PaymentMode:  paymentMode,
	})
	if err != nil {
		return map[string]interface{}{"error": err.Error()}, nil
	}

	return map[string]interface{}{
		"status":         "created",
		"invoice_number": invoice.InvoiceNumber,
		"total":          invoice.Total,
	}, &Action{Type: "create_bill", InvoiceID: invoice.ID}
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
