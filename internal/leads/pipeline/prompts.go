package pipeline

import (
	"fmt"
	"strings"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
)

// buildScoringPrompt assembles the scoring request from the lead fields and
// the tenant's prompt context. Pure data transformation, no network.
func buildScoringPrompt(lead domain.Lead, pctx domain.PromptContext) string {
	var sb strings.Builder

	sb.WriteString("You are a B2B lead qualification assistant.\n\n")
	sb.WriteString("Company context:\n")
	sb.WriteString(strings.TrimSpace(pctx.WildnetData))
	sb.WriteString("\n\nScoring criteria and ideal customer profile:\n")
	sb.WriteString(strings.TrimSpace(pctx.ScoringCriteriaAndICP))
	sb.WriteString("\n\nLead profile:\n")
	writeLeadProfile(&sb, lead)
	sb.WriteString("\nScore this lead from 0 to 100 against the criteria above.\n")
	sb.WriteString(`Respond with a JSON object only: {"score": <integer 0-100>}`)

	return sb.String()
}

// buildMessagePrompt assembles the outreach generation request. Only called
// for leads at or above the contact threshold.
func buildMessagePrompt(lead domain.Lead, pctx domain.PromptContext, score int) string {
	var sb strings.Builder

	sb.WriteString("You are writing a personalized B2B outreach message.\n\n")
	sb.WriteString("Company context:\n")
	sb.WriteString(strings.TrimSpace(pctx.WildnetData))
	sb.WriteString("\n\nMessage instructions:\n")
	sb.WriteString(strings.TrimSpace(pctx.MessagePrompt))
	sb.WriteString("\n\nLead profile (qualification score ")
	fmt.Fprintf(&sb, "%d/100):\n", score)
	writeLeadProfile(&sb, lead)
	sb.WriteString("\nRespond with a JSON object only: ")
	sb.WriteString(`{"subject": "<email subject>", "message": "<outreach message>"}`)

	return sb.String()
}

func writeLeadProfile(sb *strings.Builder, lead domain.Lead) {
	writeField(sb, "Name", lead.Name)
	writeField(sb, "Title", lead.Title)
	writeField(sb, "Location", lead.Location)
	writeField(sb, "Company", lead.CompanyName)
	writeField(sb, "Experience", lead.Experience)
	writeField(sb, "Skills", lead.Skills)
	writeField(sb, "Bio", lead.Bio)
	writeField(sb, "Profile URL", lead.ProfileURL)
	writeField(sb, "LinkedIn", lead.LinkedInURL)
	writeField(sb, "Company page", lead.CompanyPageURL)
}

func writeField(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(strings.TrimSpace(value))
	sb.WriteString("\n")
}
