package service

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
)

// mailData is the rendering context shared by all notification templates.
type mailData struct {
	RecipientFirst string
	EmployeeName   string
	Title          string
	Category       string
	Description    string
	Points         int
	Status         string
	Progress       string
	DetailURL      string
}

const textCreatedEmployee = `MBO Created Successfully

Hello {{.RecipientFirst}},

Your MBO has been created and is now pending manager approval:

Title: {{.Title}}
Type: {{.Category}}
Points: {{.Points}}
Status: {{.Status}}

View MBO: {{.DetailURL}}

This is an automated message from the MBO Tracker.
`

const htmlCreatedEmployee = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #0046ad;">MBO Created Successfully</h2>
  <p>Hello {{.RecipientFirst}},</p>
  <p>Your MBO has been created and is now pending manager approval:</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">
    <h3 style="margin-top: 0; color: #0046ad;">{{.Title}}</h3>
    <p><strong>Type:</strong> {{.Category}}</p>
    <p><strong>Points:</strong> {{.Points}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
  </div>
  <p style="text-align: center;"><a href="{{.DetailURL}}" style="background-color: #0046ad; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View MBO</a></p>
  <p style="color: #6c757d; font-size: 0.9em;">This is an automated message from the MBO Tracker.</p>
</div>
`

const textCreatedManager = `New MBO Requires Approval

Hello {{.RecipientFirst}},

{{.EmployeeName}} has created a new MBO that requires your approval:

Title: {{.Title}}
Employee: {{.EmployeeName}}
Type: {{.Category}}
Points: {{.Points}}
Description: {{.Description}}

Review & Approve MBO: {{.DetailURL}}

This is an automated message from the MBO Tracker.
`

const htmlCreatedManager = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #0046ad;">New MBO Requires Approval</h2>
  <p>Hello {{.RecipientFirst}},</p>
  <p>{{.EmployeeName}} has created a new MBO that requires your approval:</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">
    <h3 style="margin-top: 0; color: #0046ad;">{{.Title}}</h3>
    <p><strong>Employee:</strong> {{.EmployeeName}}</p>
    <p><strong>Type:</strong> {{.Category}}</p>
    <p><strong>Points:</strong> {{.Points}}</p>
    <p><strong>Description:</strong> {{.Description}}</p>
  </div>
  <p style="text-align: center;"><a href="{{.DetailURL}}" style="background-color: #0046ad; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Review &amp; Approve MBO</a></p>
  <p style="color: #6c757d; font-size: 0.9em;">This is an automated message from the MBO Tracker.</p>
</div>
`

const textDecided = `MBO {{.Status}}

Hello {{.RecipientFirst}},

Your MBO has been {{.Status}} by your manager:

Title: {{.Title}}
Type: {{.Category}}
Points: {{.Points}}

View MBO: {{.DetailURL}}

This is an automated message from the MBO Tracker.
`

const htmlDecided = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #0046ad;">MBO {{.Status}}</h2>
  <p>Hello {{.RecipientFirst}},</p>
  <p>Your MBO has been <strong>{{.Status}}</strong> by your manager:</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">
    <h3 style="margin-top: 0; color: #0046ad;">{{.Title}}</h3>
    <p><strong>Type:</strong> {{.Category}}</p>
    <p><strong>Points:</strong> {{.Points}}</p>
  </div>
  <p style="text-align: center;"><a href="{{.DetailURL}}" style="background-color: #0046ad; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View MBO</a></p>
  <p style="color: #6c757d; font-size: 0.9em;">This is an automated message from the MBO Tracker.</p>
</div>
`

const textUpdated = `MBO Updated

Hello {{.RecipientFirst}},

Your MBO has been updated:

Title: {{.Title}}
Type: {{.Category}}
Points: {{.Points}}
Status: {{.Status}}
Progress: {{.Progress}}

View MBO: {{.DetailURL}}

This is an automated message from the MBO Tracker.
`

const htmlUpdated = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #0046ad;">MBO Updated</h2>
  <p>Hello {{.RecipientFirst}},</p>
  <p>Your MBO has been updated:</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">
    <h3 style="margin-top: 0; color: #0046ad;">{{.Title}}</h3>
    <p><strong>Type:</strong> {{.Category}}</p>
    <p><strong>Points:</strong> {{.Points}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
    <p><strong>Progress:</strong> {{.Progress}}</p>
  </div>
  <p style="text-align: center;"><a href="{{.DetailURL}}" style="background-color: #0046ad; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View MBO</a></p>
  <p style="color: #6c757d; font-size: 0.9em;">This is an automated message from the MBO Tracker.</p>
</div>
`

const textDeleted = `MBO Deleted

Hello {{.RecipientFirst}},

{{.EmployeeName}} has deleted the following MBO:

Title: {{.Title}}
Type: {{.Category}}
Points: {{.Points}}
Status: {{.Status}}

This is an automated message from the MBO Tracker.
`

const htmlDeleted = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #0046ad;">MBO Deleted</h2>
  <p>Hello {{.RecipientFirst}},</p>
  <p>{{.EmployeeName}} has deleted the following MBO:</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">
    <h3 style="margin-top: 0; color: #0046ad;">{{.Title}}</h3>
    <p><strong>Type:</strong> {{.Category}}</p>
    <p><strong>Points:</strong> {{.Points}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
  </div>
  <p style="color: #6c757d; font-size: 0.9em;">This is an automated message from the MBO Tracker.</p>
</div>
`

var (
	textTemplates = texttemplate.Must(texttemplate.New("createdEmployee").Parse(textCreatedEmployee))
	htmlTemplates = htmltemplate.Must(htmltemplate.New("createdEmployee").Parse(htmlCreatedEmployee))
)

func init() {
	texttemplate.Must(textTemplates.New("createdManager").Parse(textCreatedManager))
	texttemplate.Must(textTemplates.New("decided").Parse(textDecided))
	texttemplate.Must(textTemplates.New("updated").Parse(textUpdated))
	texttemplate.Must(textTemplates.New("deleted").Parse(textDeleted))

	htmltemplate.Must(htmlTemplates.New("createdManager").Parse(htmlCreatedManager))
	htmltemplate.Must(htmlTemplates.New("decided").Parse(htmlDecided))
	htmltemplate.Must(htmlTemplates.New("updated").Parse(htmlUpdated))
	htmltemplate.Must(htmlTemplates.New("deleted").Parse(htmlDeleted))
}

// renderBodies executes the named text and HTML templates with data.
func renderBodies(name string, data mailData) (text, html string, err error) {
	var tb, hb bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&tb, name, data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	if err := htmlTemplates.ExecuteTemplate(&hb, name, data); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	return tb.String(), hb.String(), nil
}

// detailURL builds the deep link into the web UI for one objective.
func detailURL(baseURL, objectiveID string) string {
	return fmt.Sprintf("%s/mbo_details/%s", baseURL, objectiveID)
}

// statusText is the shouty form used in decision subjects ("APPROVED").
func statusText(event domain.EventType) string {
	if event == domain.EventApproved {
		return "APPROVED"
	}
	return "REJECTED"
}
