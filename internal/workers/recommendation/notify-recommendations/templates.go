package notifyrecommendations

import (
	"fmt"
	"html"
	"strings"
)

const (
	subjectTemplate = "Your course recommendations for {{pathways}}"

	textTemplate = `Hi,

Based on your assessment {{assessmentId}} we matched you with {{pathways}}.

Recommended courses:
{{courses}}
Log in to enrol.`

	htmlTemplate = `<p>Hi,</p>
<p>Based on your assessment {{assessmentId}} we matched you with <strong>{{pathways}}</strong>.</p>
<ol>
{{courses}}</ol>
<p>Log in to enrol.</p>`

	smsTemplate = "{{count}} new course recommendations for {{pathways}}. Top pick: {{top}}"
)

type message struct {
	Subject string
	Text    string
	HTML    string
	SMS     string
}

func buildMessage(input *Input, maxCourses int) message {
	courses := input.Recommendations
	if maxCourses > 0 && len(courses) > maxCourses {
		courses = courses[:maxCourses]
	}

	pathways := "your career goals"
	if len(input.CareerPathways) > 0 {
		pathways = strings.Join(input.CareerPathways, ", ")
	}

	var text, markup strings.Builder
	for i, c := range courses {
		fmt.Fprintf(&text, "%d. %s (%d%% match)\n", i+1, c.Title, c.RelevanceScore)
		fmt.Fprintf(&markup, "<li>%s <em>(%d%% match)</em></li>\n", html.EscapeString(c.Title), c.RelevanceScore)
	}

	top := ""
	if len(courses) > 0 {
		top = courses[0].Title
	}

	data := map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"pathways":     pathways,
		"count":        len(courses),
		"top":          top,
	}

	textData := withValue(data, "courses", text.String())
	htmlData := withValue(data, "courses", markup.String())
	htmlData["pathways"] = html.EscapeString(pathways)
	htmlData["assessmentId"] = html.EscapeString(input.AssessmentID)

	return message{
		Subject: renderTemplate(subjectTemplate, data),
		Text:    renderTemplate(textTemplate, textData),
		HTML:    renderTemplate(htmlTemplate, htmlData),
		SMS:     renderTemplate(smsTemplate, data),
	}
}

func withValue(data map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out[key] = value
	return out
}

// renderTemplate substitutes {{key}} placeholders and drops any left unfilled.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		switch t := v.(type) {
		case string:
			value = t
		case int:
			value = fmt.Sprintf("%d", t)
		case nil:
		default:
			value = fmt.Sprintf("%v", t)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
