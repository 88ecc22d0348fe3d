package utils

import (
	"regexp"

	"outreachly/models"
)

var variableRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// RenderTemplate substitutes {{variable}} placeholders with contact fields.
// Unknown variables render as the empty string.
func RenderTemplate(templateStr string, contact *models.Contact) string {
	if templateStr == "" {
		return ""
	}
	return variableRe.ReplaceAllStringFunc(templateStr, func(match string) string {
		name := variableRe.FindStringSubmatch(match)[1]
		switch name {
		case "first_name":
			return contact.FirstName
		case "last_name":
			return contact.LastName
		case "full_name":
			return contact.FullName()
		case "email":
			return contact.Email
		case "phone":
			return contact.Phone
		case "company":
			return contact.Company
		}
		return ""
	})
}

// ExtractVariables lists the distinct placeholder names used in a template,
// in first-appearance order.
func ExtractVariables(templateStr string) []string {
	seen := make(map[string]struct{})
	var vars []string
	for _, m := range variableRe.FindAllStringSubmatch(templateStr, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		vars = append(vars, m[1])
	}
	return vars
}
