package chat

import (
	"strings"

	"nerachat/internal/extract"
)

// formatRules is the single output contract shared by both completion paths.
const formatRules = "For output format: Write the response as a formal real estate report in plain text. " +
	"Do not use Markdown, asterisks, hashtags, or special characters like '###'. " +
	"Use headings in all caps and separate sections with line breaks. " +
	"Tables should be written in plain text with clear spacing."

// systemPrompt is prepended to every conversation sent through Complete.
const systemPrompt = "You are NERA, a professional real estate AI assistant. " +
	"Always structure your responses clearly.\n\n" +
	"For property listings:\n" +
	"- List key features one per line\n" +
	"- Format prices with commas (e.g., ₦50,000,000)\n" +
	"- Use plain-text tables for comparisons when relevant\n\n" +
	"For analysis:\n" +
	"- Start with a brief summary\n" +
	"- Use numbered lists for steps or recommendations\n" +
	"- State important figures explicitly\n" +
	"- End with clear next steps or recommendations\n\n" +
	formatRules

// creatorAttribution answers questions about who built the assistant.
const creatorAttribution = "I was created by Henshaw Michael Ewa."

// uploadFallback is returned when the provider answers a file upload without any choice.
const uploadFallback = "I received your files but encountered an issue processing them. Please try again."

var creatorQuestions = []string{"who built you", "who created you"}

// asksForCreator reports whether text asks who built or created the assistant.
func asksForCreator(text string) bool {
	lower := strings.ToLower(text)
	for _, q := range creatorQuestions {
		if strings.Contains(lower, q) {
			return true
		}
	}
	return false
}

// joinFileBlocks renders extraction results as "File: <name>\n<text>" blocks
// separated by blank lines, in the order given.
func joinFileBlocks(results []extract.Result) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, "File: "+r.Filename+"\n"+r.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// uploadPrompt builds the single user message sent for a file upload.
func uploadPrompt(message, fileContent string) string {
	full := message
	if fileContent != "" {
		full = message + "\n\nAttached files content:\n" + fileContent
	}

	var sb strings.Builder
	sb.WriteString("You are NERA, a Nigerian real estate AI assistant. ")
	sb.WriteString("Analyze the following message and attached files, then provide detailed insights ")
	sb.WriteString("about the Nigerian real estate market. Be specific about locations, prices, and trends.\n\n")
	sb.WriteString(formatRules)
	sb.WriteString("\n\nUSER MESSAGE: ")
	sb.WriteString(full)
	sb.WriteString("\n\n")
	sb.WriteString("Provide a well-structured response with clear sections. ")
	sb.WriteString("If the message includes property data, analyze it and provide insights. ")
	sb.WriteString("If there are any questions, answer them thoroughly. ")
	sb.WriteString("If the files contain data, summarize the key points and relate them to the Nigerian real estate context.")
	return sb.String()
}
