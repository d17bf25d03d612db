// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package campaigns

import (
	"regexp"
	"sort"
)

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Template is a reusable message body with {placeholder} fields.
type Template struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Content string   `json:"content"`
	Fields  []string `json:"fields"`
}

var templates = []Template{
	{
		ID:      "milk-collection",
		Name:    "Milk Collection Reminder",
		Content: "Dear Farmer, milk collection scheduled for tomorrow at {time}. Please prepare {quantity}L. Contact your cooperative for questions.",
	},
	{
		ID:      "price-update",
		Name:    "Price Update",
		Content: "Milk price update: Current rate is {price} ETB/L effective {date}. Thank you for your continued partnership.",
	},
	{
		ID:      "health-alert",
		Name:    "Animal Health Alert",
		Content: "HEALTH ALERT: {disease} detected in {region}. Please monitor your cattle and report symptoms to local vet. Vaccination available at {location}.",
	},
	{
		ID:      "training",
		Name:    "Training Invitation",
		Content: "You are invited to a training on {topic} at {location} on {date}. Registration required. Reply YES to confirm.",
	},
	{
		ID:      "payment",
		Name:    "Payment Notification",
		Content: "Payment of {amount} ETB has been processed for {period}. Check your account. For issues, contact support.",
	},
}

func init() {
	for i := range templates {
		templates[i].Fields = Fields(templates[i].Content)
	}
}

// Templates returns the built-in templates.
func Templates() []Template {
	ret := make([]Template, len(templates))
	copy(ret, templates)
	return ret
}

// TemplateByID returns the built-in template with the given id.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Fields returns the distinct placeholder names of content in order of
// appearance.
func Fields(content string) []string {
	seen := map[string]bool{}
	var fields []string
	for _, m := range placeholder.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			fields = append(fields, m[1])
		}
	}
	return fields
}

// Render substitutes values into the template content. Placeholders without
// a non-empty value are left in place and returned sorted.
func (t Template) Render(values map[string]string) (string, []string) {
	missing := map[string]bool{}
	out := placeholder.ReplaceAllStringFunc(t.Content, func(m string) string {
		name := m[1 : len(m)-1]
		if v := values[name]; v != "" {
			return v
		}
		missing[name] = true
		return m
	})

	var ret []string
	for name := range missing {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return out, ret
}
