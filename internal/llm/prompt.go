package llm

// BuildExtractionPrompt builds the deterministic instruction prompt.
// The target shape must stay in sync with the schema package.
func BuildExtractionPrompt(text string) string {
	return `You are an expert data extraction assistant.
Extract a structured "Home Chef" style menu from the provided text. Return STRICT JSON that matches this shape:

{
  "vendor": "string (optional)",
  "currency": "string (optional), e.g. "INR", "USD", or a symbol like "Rs" / "₹"",
  "items": [
    {
      "name": "string (required, dish name)",
      "category": "string (optional), e.g. "Veg", "Non-Veg", "Starter", "Main Course"",
      "description": "string (optional)",
      "price": "number or string (optional); if multiple prices exist, choose the most likely single price or omit",
      "options": [{ "label": "string", "price": "number or string (optional)" }]
    }
  ]
}

Guidelines:
- If the text is a WhatsApp chat export, ignore non-menu chatter and timestamps.
- Consolidate duplicate items and prefer the clearest naming.
- Detect currency symbols such as Rs, ₹, $, INR and set currency accordingly.
- Keep descriptions short if present; it's ok to omit.
- If menu-like items are absent, return an empty items array.
- Respond with ONLY JSON. No markdown, no backticks, no commentary.

Text:
---
` + text + `
---`
}
