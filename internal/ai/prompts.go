package ai

import (
	"fmt"
	"strings"

	"fjacquet/clarity-ledger/internal/models"
)

// ReceiptCategories are the category values the receipt prompt accepts.
var ReceiptCategories = []string{
	"Groceries", "Utilities", "Food", "Transport", "Shopping", "Health",
	"Entertainment", "Travel", "Tax", "Credit Card", "Other",
}

func receiptLanguageInstruction(lang models.Language) string {
	if lang == models.LanguageTraditionalChinese {
		return "請以繁體中文進行分析與回答。"
	}
	return "Analyze and respond in English."
}

func tipLanguageInstruction(lang models.Language) string {
	if lang == models.LanguageTraditionalChinese {
		return "請以繁體中文回答。"
	}
	return "Please respond in English."
}

// BuildReceiptSystemPrompt returns the extraction instruction for a user
// whose primary currency is cur.
func BuildReceiptSystemPrompt(cur models.Currency, lang models.Language) string {
	quoted := make([]string, len(ReceiptCategories))
	for i, c := range ReceiptCategories {
		quoted[i] = fmt.Sprintf("%q", c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are ClarityAI, a data extraction assistant for financial documents such as bills, receipts and invoices. Extract the key facts and return them as one JSON object.\n\n")
	fmt.Fprintf(&sb, "The user's primary currency is %s (symbol: %s).\n\n", cur.Code, cur.Symbol)
	sb.WriteString("Fields to extract:\n")
	sb.WriteString("- amount: the final total. Look for labels such as Total, Grand Total, Amount Due, 付款總額, 總計, 合計, 應付金額.\n")
	sb.WriteString("- date: the transaction date as YYYY-MM-DD.\n")
	sb.WriteString("- vendor: the store or service provider, usually printed at the top.\n")
	sb.WriteString("- category: a spending category.\n")
	fmt.Fprintf(&sb, "- currency: the currency code of the extracted amount (for example %s, EUR, JPY).\n\n", cur.Code)
	sb.WriteString("Currency rules, in strict order:\n")
	fmt.Fprintf(&sb, "1. If the document shows an amount in %s (%s), even as a secondary figure, use that amount and set currency to \"%s\".\n", cur.Code, cur.Symbol, cur.Code)
	sb.WriteString("2. Otherwise, if another currency is clearly shown, use the amount in that currency and set currency to its 3-letter code.\n")
	fmt.Fprintf(&sb, "3. Otherwise, if no currency is identifiable, assume the amount is in %s and set currency to \"%s\".\n", cur.Code, cur.Code)
	sb.WriteString("Report the amount exactly as printed. Never convert between currencies.\n\n")
	sb.WriteString("Use null for any field that is unclear or missing. Prefer figures from the final summary or total.\n\n")
	sb.WriteString("Respond ONLY with a single valid JSON object of this shape, with no text before or after it:\n")
	sb.WriteString(`{"amount": <number | null>, "date": "<YYYY-MM-DD | null>", "vendor": "<string | null>", "category": "<string | null>", "currency": "<string | null>"}`)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Accepted category values: %s, or null.\n\n", strings.Join(quoted, ", "))
	sb.WriteString(receiptLanguageInstruction(lang))
	return sb.String()
}

// BuildReceiptUserPrompt returns the user message for the given OCR text.
// hasImage tells whether an image accompanies the message.
func BuildReceiptUserPrompt(ocrText string, hasImage bool) string {
	if strings.TrimSpace(ocrText) == "" {
		if hasImage {
			return "Please analyze the provided image of a bill or receipt."
		}
		return ""
	}
	return "Please analyze the provided data from the bill/receipt.\n" +
		"If an image is also provided, prioritize information from the image. " +
		"Use the following OCR text as a strong reference or if the image is absent/unclear:\n\n" +
		"OCR Text:\n---\n" + ocrText + "\n---"
}

// StatusDescriptor describes a balance in words for the tip prompt.
func StatusDescriptor(balance float64) string {
	switch {
	case balance < 0:
		return "currently in debt"
	case balance < 100:
		return "on the lower side"
	case balance > 5000:
		return "looking healthy"
	default:
		return "stable"
	}
}

// ActivityDescriptor describes how many transactions were logged recently.
func ActivityDescriptor(recentCount int) string {
	switch {
	case recentCount < 5:
		return "low"
	case recentCount > 20:
		return "high"
	default:
		return "moderate"
	}
}

// BuildTipPrompt returns the prompt asking for one short financial tip.
func BuildTipPrompt(in TipInput) string {
	var sb strings.Builder
	sb.WriteString("You are Clarity, the assistant built into the ClarityLedger app. Give clear, encouraging and actionable financial insight, as a friendly guide rather than a strict planner.\n\n")
	sb.WriteString("The user's current snapshot:\n")
	fmt.Fprintf(&sb, "- Current balance: %s%.2f %s\n", in.Currency.Symbol, in.Balance, in.Currency.Code)
	fmt.Fprintf(&sb, "- Recent transaction volume: %s (%d transactions logged recently)\n", ActivityDescriptor(in.RecentCount), in.RecentCount)
	fmt.Fprintf(&sb, "- Overall standing: %s\n\n", StatusDescriptor(in.Balance))
	sb.WriteString("Using only this information, write ONE practical and uplifting tip of at most 2-3 sentences. ")
	sb.WriteString("Suggest a concrete step, such as reviewing spending categories, setting a budget or checking the monthly trend. ")
	sb.WriteString("Stay positive and non-judgmental whatever the balance. ")
	sb.WriteString("Pick one theme: spending habits, savings, budgeting, debt reduction when in debt, financial literacy, or celebrating progress when healthy. ")
	sb.WriteString("Output plain text only, with no markdown, emojis or lists.\n\n")
	sb.WriteString(tipLanguageInstruction(in.Language))
	return sb.String()
}
